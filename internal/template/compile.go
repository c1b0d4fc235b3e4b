package template

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/cleared-dev/statements/internal/model"
)

// MaxPasses bounds formula re-evaluation for templates whose formulas cannot
// be ordered statically.
const MaxPasses = 3

// ErrCycle is returned by strict compilation of a template with circular
// formula references.
var ErrCycle = errors.New("formula cycle")

// Options control compilation.
type Options struct {
	// Strict rejects formula cycles instead of falling back to MaxPasses
	// re-evaluation.
	Strict bool
}

// Leaf is a compiled aggregated line.
type Leaf struct {
	Line
	// Exclude holds the codes bound by other lines of the same flow; set on
	// residual cash lines only.
	Exclude []string
}

// Derived is a compiled formula line.
type Derived struct {
	Line
	Formula Formula
}

// Compiled is a validated statement ready for evaluation.
type Compiled struct {
	Statement Statement
	Leaves    []Leaf
	// Formulas are in dependency order: every formula row is computed before
	// any formula that reads it.
	Formulas []Derived
	// Passes is 1 unless the formulas contain a cycle.
	Passes   int
	Warnings []string
}

// Compile validates st, parses its formulas, and orders them topologically.
// All problems are reported together.
func Compile(st Statement, opts Options) (*Compiled, error) {
	c := &Compiled{Statement: st, Passes: 1}
	if len(st.Columns) == 0 {
		c.Statement.Columns = DefaultColumns(st.Kind)
	}

	var errs error
	rows := make(map[int]bool)
	for i, l := range st.Lines {
		if l.Row <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("line %d (%q): row must be positive", i, l.Name))
			continue
		}
		if rows[l.Row] {
			errs = multierr.Append(errs, fmt.Errorf("row %d: duplicate row number", l.Row))
			continue
		}
		rows[l.Row] = true

		if l.Side == "" {
			l.Side = model.Debit
		}

		switch {
		case l.IsFormula() && len(l.Codes) > 0:
			errs = multierr.Append(errs, fmt.Errorf("row %d: has both codes and a formula", l.Row))
		case l.IsFormula():
			f, err := ParseFormula(l.Formula)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("row %d: %w", l.Row, err))
				continue
			}
			c.Formulas = append(c.Formulas, Derived{Line: l, Formula: f})
		case l.IsHeader():
			// Informational only.
		default:
			if err := checkLeaf(l); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("row %d: %w", l.Row, err))
				continue
			}
			if l.Basis == "" {
				l.Basis = BasisBalance
			}
			c.Leaves = append(c.Leaves, Leaf{Line: l})
		}
	}

	for _, chk := range st.Checks {
		if !rows[chk.Row] {
			errs = multierr.Append(errs, fmt.Errorf("check %q: unknown row %d", chk.Name, chk.Row))
		}
		switch {
		case chk.Independent != nil && chk.Against != 0:
			errs = multierr.Append(errs, fmt.Errorf("check %q: both against and independent set", chk.Name))
		case chk.Independent != nil:
			if err := checkLeaf(*chk.Independent); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("check %q: %w", chk.Name, err))
			}
		case !rows[chk.Against]:
			errs = multierr.Append(errs, fmt.Errorf("check %q: unknown row %d", chk.Name, chk.Against))
		}
	}

	if len(st.CashCodes) == 0 {
		for _, l := range c.Leaves {
			if l.Basis == BasisCash {
				errs = multierr.Append(errs, fmt.Errorf("cash lines need cash_codes"))
				break
			}
		}
	}

	if errs != nil {
		return nil, errs
	}

	c.bindResiduals()

	sorted := make([]int, 0, len(rows))
	for row := range rows {
		sorted = append(sorted, row)
	}
	sort.Ints(sorted)
	for i := range c.Formulas {
		c.Formulas[i].Formula = c.Formulas[i].Formula.bind(sorted)
	}

	ordered, cyclic := orderFormulas(c.Formulas)
	if len(cyclic) > 0 {
		if opts.Strict {
			return nil, fmt.Errorf("%w through rows %v", ErrCycle, cyclic)
		}
		c.Passes = MaxPasses
		c.Warnings = append(c.Warnings,
			fmt.Sprintf("formula rows %v are on or behind a cycle; evaluating in template order with %d passes", cyclic, MaxPasses))
		return c, nil
	}
	c.Formulas = ordered
	return c, nil
}

func checkLeaf(l Line) error {
	switch l.Basis {
	case "", BasisBalance, BasisOpening, BasisMovement:
		if l.Residual {
			return fmt.Errorf("residual is only valid on cash lines")
		}
	case BasisCash:
		if !l.Flow.Valid() {
			return fmt.Errorf("cash line needs flow inflow or outflow, got %q", l.Flow)
		}
		if l.Residual && len(l.Codes) > 0 {
			return fmt.Errorf("residual cash line must not bind codes")
		}
	default:
		return fmt.Errorf("unknown basis %q", l.Basis)
	}
	if l.Side != "" && !l.Side.Valid() {
		return fmt.Errorf("unknown side %q", l.Side)
	}
	return nil
}

// bindResiduals gives every residual cash line the codes bound by the other
// lines of its flow.
func (c *Compiled) bindResiduals() {
	for i := range c.Leaves {
		r := &c.Leaves[i]
		if r.Basis != BasisCash || !r.Residual {
			continue
		}
		for _, l := range c.Leaves {
			if l.Basis == BasisCash && !l.Residual && l.Flow == r.Flow {
				r.Exclude = append(r.Exclude, l.Codes...)
			}
		}
	}
}

// orderFormulas sorts formulas so dependencies come first, keeping template
// order among independent rows. It returns the rows left on a cycle.
func orderFormulas(formulas []Derived) ([]Derived, []int) {
	index := make(map[int]int, len(formulas))
	for i, f := range formulas {
		index[f.Row] = i
	}

	indegree := make([]int, len(formulas))
	dependents := make([][]int, len(formulas))
	for i, f := range formulas {
		seen := make(map[int]bool)
		for _, ref := range f.Formula.Refs() {
			j, ok := index[ref]
			if !ok || seen[j] {
				continue
			}
			seen[j] = true
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i := range formulas {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]Derived, 0, len(formulas))
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]
		ordered = append(ordered, formulas[i])
		for _, d := range dependents[i] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(ordered) == len(formulas) {
		return ordered, nil
	}
	var cyclic []int
	for i, f := range formulas {
		if indegree[i] > 0 {
			cyclic = append(cyclic, f.Row)
		}
	}
	sort.Ints(cyclic)
	return nil, cyclic
}

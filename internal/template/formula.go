package template

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Term is one signed operand of a formula: a RangeSum or a SignedTerm.
type Term interface {
	// Value returns the signed contribution given computed row values.
	Value(values map[int]decimal.Decimal) decimal.Decimal
	// Refs returns the rows the term reads.
	Refs() []int
}

// RangeSum adds rows Start through End inclusive. Compile binds it to the
// template rows inside the range, so its cost follows the template size and
// not the width of the range.
type RangeSum struct {
	Sign       int
	Start, End int

	rows  []int
	bound bool
}

func (r RangeSum) Value(values map[int]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	if r.bound {
		for _, row := range r.rows {
			total = total.Add(values[row])
		}
	} else {
		for row, v := range values {
			if row >= r.Start && row <= r.End {
				total = total.Add(v)
			}
		}
	}
	if r.Sign < 0 {
		return total.Neg()
	}
	return total
}

// Refs returns the bound rows. An unbound range lists every row it spans.
func (r RangeSum) Refs() []int {
	if r.bound {
		return r.rows
	}
	refs := make([]int, 0, r.End-r.Start+1)
	for row := r.Start; row <= r.End; row++ {
		refs = append(refs, row)
	}
	return refs
}

// bind restricts r to the rows of sorted that fall inside it.
func (r RangeSum) bind(sorted []int) RangeSum {
	lo := sort.SearchInts(sorted, r.Start)
	hi := sort.SearchInts(sorted, r.End+1)
	r.rows = append([]int(nil), sorted[lo:hi]...)
	r.bound = true
	return r
}

func (r RangeSum) String() string {
	return fmt.Sprintf("%ssum(%d-%d)", signString(r.Sign), r.Start, r.End)
}

// SignedTerm adds or subtracts a single row.
type SignedTerm struct {
	Sign int
	Row  int
}

func (t SignedTerm) Value(values map[int]decimal.Decimal) decimal.Decimal {
	if t.Sign < 0 {
		return values[t.Row].Neg()
	}
	return values[t.Row]
}

func (t SignedTerm) Refs() []int {
	return []int{t.Row}
}

func (t SignedTerm) String() string {
	return fmt.Sprintf("%s%d", signString(t.Sign), t.Row)
}

// Formula is a parsed formula expression.
type Formula []Term

// Eval sums the terms. Rows missing from values contribute zero.
func (f Formula) Eval(values map[int]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, t := range f {
		total = total.Add(t.Value(values))
	}
	return total
}

// Refs returns every row the formula reads, in term order.
func (f Formula) Refs() []int {
	var refs []int
	for _, t := range f {
		refs = append(refs, t.Refs()...)
	}
	return refs
}

// bind returns f with every range restricted to the rows of sorted, the
// template's row numbers in ascending order.
func (f Formula) bind(sorted []int) Formula {
	out := make(Formula, len(f))
	for i, t := range f {
		if r, ok := t.(RangeSum); ok {
			t = r.bind(sorted)
		}
		out[i] = t
	}
	return out
}

// ParseFormula parses expressions such as "sum(2-4)", "5-10",
// "16+17-18" and "sum(2-4)+9-10". Whitespace is ignored; the first term's
// sign defaults to +.
func ParseFormula(s string) (Formula, error) {
	src := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
	if src == "" {
		return nil, fmt.Errorf("empty formula")
	}

	p := &parser{src: src}
	var f Formula
	for !p.done() {
		sign := 1
		switch p.peek() {
		case '+':
			p.pos++
		case '-':
			sign = -1
			p.pos++
		default:
			if len(f) > 0 {
				return nil, fmt.Errorf("formula %q: expected + or - at offset %d", s, p.pos)
			}
		}

		if strings.HasPrefix(p.src[p.pos:], "sum(") {
			p.pos += len("sum(")
			start, err := p.number()
			if err != nil {
				return nil, fmt.Errorf("formula %q: %w", s, err)
			}
			if !p.consume('-') {
				return nil, fmt.Errorf("formula %q: expected - in range at offset %d", s, p.pos)
			}
			end, err := p.number()
			if err != nil {
				return nil, fmt.Errorf("formula %q: %w", s, err)
			}
			if !p.consume(')') {
				return nil, fmt.Errorf("formula %q: expected ) at offset %d", s, p.pos)
			}
			if start > end {
				return nil, fmt.Errorf("formula %q: range %d-%d is reversed", s, start, end)
			}
			f = append(f, RangeSum{Sign: sign, Start: start, End: end})
			continue
		}

		row, err := p.number()
		if err != nil {
			return nil, fmt.Errorf("formula %q: %w", s, err)
		}
		f = append(f, SignedTerm{Sign: sign, Row: row})
	}
	return f, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) number() (int, error) {
	start := p.pos
	for !p.done() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected row number at offset %d", start)
	}
	return strconv.Atoi(p.src[start:p.pos])
}

func signString(sign int) string {
	if sign < 0 {
		return "-"
	}
	return "+"
}

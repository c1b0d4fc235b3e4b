package template

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/statements/internal/accounts"
	"github.com/cleared-dev/statements/internal/model"
)

// Coverage reports each leaf that no balance or movement line binds, or that
// several lines bind. Cash lines are skipped: they bind counterparts, not
// positions, and may repeat a code across flows.
func Coverage(st Statement, leaves []model.Account) []model.Issue {
	type bound struct {
		row   int
		codes []string
	}
	var lines []bound
	for _, l := range st.Lines {
		if l.IsFormula() || l.Basis == BasisCash || l.Basis == BasisOpening || len(l.Codes) == 0 {
			continue
		}
		lines = append(lines, bound{row: l.Row, codes: accounts.Minimal(l.Codes)})
	}

	var issues []model.Issue
	for _, leaf := range leaves {
		var rows []string
		for _, b := range lines {
			for _, c := range b.codes {
				if model.Under(leaf.Code, c) {
					rows = append(rows, fmt.Sprint(b.row))
					break
				}
			}
		}
		switch len(rows) {
		case 0:
			issues = append(issues, model.Issue{
				Ref:    leaf.Code,
				Reason: fmt.Sprintf("not bound by any line of %s", st.Kind),
			})
		case 1:
		default:
			issues = append(issues, model.Issue{
				Ref:    leaf.Code,
				Reason: fmt.Sprintf("bound by rows %s of %s", strings.Join(rows, ", "), st.Kind),
			})
		}
	}
	return issues
}

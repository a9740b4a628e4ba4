package leads

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/lendhub/leaddesk/pkg/models"
	"golang.org/x/text/cases"
)

// FilterSet holds the equality filters of the dashboard and analytics views.
// Empty fields are inactive.
type FilterSet struct {
	ProgramType  string `query:"program_type" json:"program_type,omitempty"`
	ProcessStage string `query:"process_stage" json:"process_stage,omitempty"`
	LeadSource   string `query:"lead_source" json:"lead_source,omitempty"`
	Status       string `query:"status" json:"status,omitempty"`
	LoanTerm     string `query:"loan_term" json:"loan_term,omitempty"`
	State        string `query:"state" json:"state,omitempty"`
	Priority     string `query:"priority" json:"priority,omitempty"`
}

// Predicate reports whether a lead belongs in a view
type Predicate func(models.Lead) bool

// IsZero reports whether no filter dimension is active
func (f FilterSet) IsZero() bool {
	return f == FilterSet{}
}

// Predicates returns one predicate per active dimension. Rank and the
// analytics service both filter through this list.
func (f FilterSet) Predicates() []Predicate {
	var preds []Predicate

	if f.ProgramType != "" {
		v := f.ProgramType
		preds = append(preds, func(l models.Lead) bool { return l.ProgramType == v })
	}
	if f.ProcessStage != "" {
		v := f.ProcessStage
		preds = append(preds, func(l models.Lead) bool { return l.ProcessStage == v })
	}
	if f.LeadSource != "" {
		v := f.LeadSource
		preds = append(preds, func(l models.Lead) bool { return l.LeadSource == v })
	}
	if f.Status != "" {
		v := models.LeadStatus(f.Status)
		preds = append(preds, func(l models.Lead) bool { return l.Status == v })
	}
	if f.LoanTerm != "" {
		preds = append(preds, loanTermPredicate(f.LoanTerm))
	}
	if f.State != "" {
		v := f.State
		preds = append(preds, func(l models.Lead) bool { return l.State == v })
	}
	if f.Priority != "" {
		v := models.Priority(f.Priority)
		preds = append(preds, func(l models.Lead) bool { return l.EffectivePriority() == v })
	}

	return preds
}

// Key is a stable identifier of the active filters, used for cache keys.
func (f FilterSet) Key() string {
	if f.IsZero() {
		return "all"
	}
	raw := strings.Join([]string{
		f.ProgramType, f.ProcessStage, f.LeadSource, f.Status,
		f.LoanTerm, f.State, f.Priority,
	}, "\x1f")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:8])
}

// loan term filters compare as integers; an unparsable filter matches nothing
func loanTermPredicate(raw string) Predicate {
	want, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return func(models.Lead) bool { return false }
	}
	return func(l models.Lead) bool {
		return l.LoanTerm != nil && *l.LoanTerm == want
	}
}

// SearchPredicate matches a case-insensitive substring against name, email,
// phone and property address. An empty term returns nil (no constraint).
// The returned predicate is not safe for concurrent use.
func SearchPredicate(term string) Predicate {
	if term == "" {
		return nil
	}
	fold := cases.Fold()
	needle := fold.String(term)

	return func(l models.Lead) bool {
		for _, field := range []string{l.FirstName, l.LastName, l.Email, l.CellPhone, l.PropertyAddress} {
			if field == "" {
				continue
			}
			if strings.Contains(fold.String(field), needle) {
				return true
			}
		}
		return false
	}
}

// Match reports whether l satisfies every predicate. Nil predicates are skipped.
func Match(l models.Lead, preds ...Predicate) bool {
	for _, p := range preds {
		if p != nil && !p(l) {
			return false
		}
	}
	return true
}

// Filter returns a new slice with the leads matching every predicate,
// in input order.
func Filter(leads []models.Lead, preds ...Predicate) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if Match(l, preds...) {
			out = append(out, l)
		}
	}
	return out
}

package leads

import "github.com/lendhub/leaddesk/pkg/models"

// Status policy names accepted by LEAD_STATUS_POLICY
const (
	PolicyOpen   = "open"
	PolicyStrict = "strict"
)

// StatusPolicy decides whether a lead may move between two statuses
type StatusPolicy interface {
	Allow(from, to models.LeadStatus) bool
	Name() string
}

// OpenPolicy allows any status to move to any other status
type OpenPolicy struct{}

func (OpenPolicy) Allow(_, _ models.LeadStatus) bool { return true }
func (OpenPolicy) Name() string                       { return PolicyOpen }

// StrictTransitions is the pipeline graph enforced by the strict policy.
// Closed is terminal.
var StrictTransitions = map[models.LeadStatus]map[models.LeadStatus]bool{
	models.StatusNew:       {models.StatusInReview: true, models.StatusContacted: true},
	models.StatusInReview:  {models.StatusNew: true, models.StatusContacted: true, models.StatusApproved: true},
	models.StatusContacted: {models.StatusInReview: true, models.StatusApproved: true},
	models.StatusApproved:  {models.StatusContacted: true, models.StatusClosed: true},
	models.StatusClosed:    {},
}

// StrictPolicy enforces StrictTransitions
type StrictPolicy struct {
	table map[models.LeadStatus]map[models.LeadStatus]bool
}

// NewStrictPolicy creates a policy backed by StrictTransitions
func NewStrictPolicy() StrictPolicy {
	return StrictPolicy{table: StrictTransitions}
}

func (p StrictPolicy) Allow(from, to models.LeadStatus) bool {
	if from == "" {
		return true
	}
	nexts, ok := p.table[from]
	if !ok {
		return false
	}
	return nexts[to]
}

func (StrictPolicy) Name() string { return PolicyStrict }

// NewStatusPolicy resolves a policy by name; anything but "strict" is open.
func NewStatusPolicy(name string) StatusPolicy {
	if name == PolicyStrict {
		return NewStrictPolicy()
	}
	return OpenPolicy{}
}

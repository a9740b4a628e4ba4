package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LeadStatus is the pipeline position of a lead
type LeadStatus string

const (
	StatusNew       LeadStatus = "New"
	StatusInReview  LeadStatus = "In Review"
	StatusContacted LeadStatus = "Contacted"
	StatusApproved  LeadStatus = "Approved"
	StatusClosed    LeadStatus = "Closed"
)

// LeadStatuses lists every status in pipeline order
var LeadStatuses = []LeadStatus{StatusNew, StatusInReview, StatusContacted, StatusApproved, StatusClosed}

// Valid reports whether s is one of the five pipeline statuses
func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority is the staff-assigned urgency of a lead
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is High, Medium or Low
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Intake form option lists
var (
	ProgramTypes = []string{
		"Bridge (Short Term, No Rehab)",
		"Commercial (All)",
		"New Construction",
		"DSCR/Rental",
		"Fix & Flip",
		"New Construction – Multifamily",
		"New Construction – Subdivision",
	}

	ProcessStages = []string{
		"Looking for General Info",
		"Actively Looking",
		"Identified Property",
		"Property Under Contract",
		"Own the Property/Land",
	}

	LeadSources = []string{
		"LNH Rep",
		"Email",
		"Facebook",
		"Google",
		"Instagram",
		"Text",
		"Repeat Client",
		"Craigslist",
		"Client Referral",
		"Meetup/REI",
		"Yelp",
		"Bigger Pockets",
		"Other",
	}

	LoanTerms = []int{12, 18, 24, 36}
)

// Lead is a borrower application as stored and served to staff
type Lead struct {
	ID               string             `db:"id" json:"id"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
	FirstName        string             `db:"first_name" json:"first_name"`
	LastName         string             `db:"last_name" json:"last_name"`
	Email            string             `db:"email" json:"email"`
	CellPhone        string             `db:"cell_phone" json:"cell_phone"`
	ProgramType      string             `db:"program_type" json:"program_type"`
	ProcessStage     string             `db:"process_stage" json:"process_stage"`
	LeadSource       string             `db:"lead_source" json:"lead_source"`
	Status           LeadStatus         `db:"status" json:"status"`
	State            string             `db:"state" json:"state,omitempty"`
	Priority         Priority           `db:"priority" json:"priority,omitempty"`
	LoanTerm         *int               `db:"loan_term" json:"loan_term,omitempty"`
	AcquisitionPrice *float64           `db:"acquisition_price" json:"acquisition_price,omitempty"`
	ARV              *float64           `db:"arv" json:"arv,omitempty"`
	LeadScore        *float64           `db:"lead_score" json:"lead_score,omitempty"`
	PropertyAddress  string             `db:"property_address" json:"property_address,omitempty"`
	Notes            string             `db:"notes" json:"notes,omitempty"`
	Details          ApplicationDetails `db:"details" json:"details"`
}

// EffectiveScore returns the lead score, 0 when absent
func (l Lead) EffectiveScore() float64 {
	if l.LeadScore == nil {
		return 0
	}
	return *l.LeadScore
}

// EffectivePriority returns the priority, Medium when absent
func (l Lead) EffectivePriority() Priority {
	if l.Priority == "" {
		return PriorityMedium
	}
	return l.Priority
}

// FullName joins first and last name with a single space
func (l Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

// ApplicationDetails holds the intake form answers that staff read but
// never filter on. Persisted as a single JSON column.
type ApplicationDetails struct {
	SecondaryEmail            string   `json:"secondary_email,omitempty"`
	CoBorrowerName            string   `json:"co_borrower_name,omitempty"`
	CoBorrowerEmail           string   `json:"co_borrower_email,omitempty"`
	CoBorrowerPhone           string   `json:"co_borrower_phone,omitempty"`
	Address                   string   `json:"address,omitempty"`
	City                      string   `json:"city,omitempty"`
	ZipCode                   string   `json:"zip_code,omitempty"`
	ResidenceStatus           string   `json:"residence_status,omitempty"`
	Citizenship               string   `json:"citizenship,omitempty"`
	MidCreditScore            *int     `json:"mid_credit_score,omitempty"`
	CreditScoreRange          string   `json:"credit_score_range,omitempty"`
	EntityName                string   `json:"entity_name,omitempty"`
	EntityType                string   `json:"entity_type,omitempty"`
	BankruptcyLast7Years      bool     `json:"bankruptcy_last_7_years"`
	OutstandingJudgments      bool     `json:"outstanding_judgments"`
	ActiveLawsuits            bool     `json:"active_lawsuits"`
	PropertyTaxLiens          bool     `json:"property_tax_liens"`
	ForeclosureHistory        bool     `json:"foreclosure_history"`
	DelinquenciesDefaults     bool     `json:"delinquencies_defaults"`
	FelonyFraudConvictions    bool     `json:"felony_fraud_convictions"`
	BackgroundExplanation     string   `json:"background_explanation,omitempty"`
	FixFlipExperience         int      `json:"fix_flip_experience"`
	MultifamilyExperience     bool     `json:"multifamily_experience"`
	InvestmentPropertiesOwned int      `json:"investment_properties_owned"`
	ProfessionalLicenses      string   `json:"professional_licenses,omitempty"`
	LiquidAssets              *float64 `json:"liquid_assets,omitempty"`
	TransactionType           string   `json:"transaction_type,omitempty"`
	PropertyValueAsIs         *float64 `json:"property_value_as_is,omitempty"`
	DesiredClosingDate        string   `json:"desired_closing_date,omitempty"`
	RehabBudget               *float64 `json:"rehab_budget,omitempty"`
	RehabTimeline             string   `json:"rehab_timeline,omitempty"`
	PropertyZip               string   `json:"property_zip,omitempty"`
	LocationType              string   `json:"location_type,omitempty"`
	PropertyType              string   `json:"property_type,omitempty"`
	NumBuildings              *int     `json:"num_buildings,omitempty"`
	NumUnitsCurrent           *int     `json:"num_units_current,omitempty"`
	NumUnitsCompletion        *int     `json:"num_units_completion,omitempty"`
	NumParcels                *int     `json:"num_parcels,omitempty"`
	ExistingStructure         bool     `json:"existing_structure"`
	GCLicensed                bool     `json:"gc_licensed"`
	GCInsured                 bool     `json:"gc_insured"`
	WholesaleFee              *float64 `json:"wholesale_fee,omitempty"`
	SellerFinancing           bool     `json:"seller_financing"`
	TermsAccepted             bool     `json:"terms_accepted"`
	CreditPullAuthorized      bool     `json:"credit_pull_authorized"`
}

// Value implements driver.Valuer
func (d ApplicationDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (d *ApplicationDetails) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = ApplicationDetails{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("application details: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*d = ApplicationDetails{}
		return nil
	}
	return json.Unmarshal(raw, d)
}

// LeadPatch is a partial update; nil fields are left untouched.
type LeadPatch struct {
	Status   *LeadStatus
	Priority *Priority
	Notes    *string
}

// Empty reports whether the patch changes nothing
func (p LeadPatch) Empty() bool {
	return p.Status == nil && p.Priority == nil && p.Notes == nil
}

// LeadOrder names a whitelisted ordering for store selects
type LeadOrder string

const (
	OrderCreatedDesc LeadOrder = "created_at_desc"
	OrderCreatedAsc  LeadOrder = "created_at_asc"
	OrderScoreDesc   LeadOrder = "lead_score_desc"
)

// LeadQuery is the store-level selection: a creation window, an optional
// status, and an ordering. Dimension filters are applied in memory.
type LeadQuery struct {
	CreatedSince  *time.Time
	CreatedBefore *time.Time
	Status        LeadStatus
	Order         LeadOrder
}

// StatusUpdateRequest is the body of PATCH /leads/:id/status
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// LeadListResponse is the ranked dashboard view
type LeadListResponse struct {
	Data  []Lead `json:"data"`
	Total int    `json:"total"`
}

package leads

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/models"
	"github.com/lendhub/leaddesk/pkg/phone"
)

// ApplicationRequest is the public intake form submission
type ApplicationRequest struct {
	ProgramType      string   `json:"program_type" validate:"required,program_type"`
	ProcessStage     string   `json:"process_stage" validate:"required,process_stage"`
	LeadSource       string   `json:"lead_source" validate:"required,lead_source"`
	FirstName        string   `json:"first_name" validate:"required,max=100"`
	LastName         string   `json:"last_name" validate:"required,max=100"`
	Email            string   `json:"email" validate:"required,email"`
	CellPhone        string   `json:"cell_phone" validate:"required"`
	State            string   `json:"state" validate:"omitempty,max=50"`
	LoanTerm         *int     `json:"loan_term" validate:"omitempty,oneof=12 18 24 36"`
	AcquisitionPrice *float64 `json:"acquisition_price" validate:"omitempty,gte=0"`
	ARV              *float64 `json:"arv" validate:"omitempty,gte=0"`
	PropertyAddress  string   `json:"property_address" validate:"omitempty,max=500"`

	models.ApplicationDetails
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("program_type", inList(models.ProgramTypes))
	_ = v.RegisterValidation("process_stage", inList(models.ProcessStages))
	_ = v.RegisterValidation("lead_source", inList(models.LeadSources))

	return v
}

// oneof splits on spaces, which the option labels contain
func inList(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, o := range options {
			if value == o {
				return true
			}
		}
		return false
	}
}

// Validate checks required fields and option lists, collecting one message
// per offending field.
func (r *ApplicationRequest) Validate() error {
	fields := map[string]string{}

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.NewValidationError(err.Error())
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}

	if !r.TermsAccepted {
		fields["terms_accepted"] = "Please accept the terms and conditions"
	}

	if len(fields) > 0 {
		return domain.NewFieldValidationError(fields)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must not be negative"
	case "program_type", "process_stage", "lead_source":
		return "is not a recognised option"
	default:
		return "is invalid"
	}
}

// ToLead normalises the submission into a new lead. The phone number is
// stored as E.164 when it is a valid number.
func (r *ApplicationRequest) ToLead(now time.Time) (*models.Lead, error) {
	parsed, err := phone.Parse(r.CellPhone, phone.DefaultRegion)
	if err != nil {
		return nil, domain.NewFieldValidationError(map[string]string{
			"cell_phone": "must be a phone number",
		})
	}

	return &models.Lead{
		ID:               uuid.NewString(),
		CreatedAt:        now.UTC(),
		FirstName:        strings.TrimSpace(r.FirstName),
		LastName:         strings.TrimSpace(r.LastName),
		Email:            strings.TrimSpace(r.Email),
		CellPhone:        parsed.Stored(),
		ProgramType:      r.ProgramType,
		ProcessStage:     r.ProcessStage,
		LeadSource:       r.LeadSource,
		Status:           models.StatusNew,
		State:            strings.TrimSpace(r.State),
		Priority:         models.PriorityMedium,
		LoanTerm:         r.LoanTerm,
		AcquisitionPrice: r.AcquisitionPrice,
		ARV:              r.ARV,
		PropertyAddress:  strings.TrimSpace(r.PropertyAddress),
		Details:          r.ApplicationDetails,
	}, nil
}

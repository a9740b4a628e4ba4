package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers written without a country code
const DefaultRegion = "US"

// ErrEmpty is returned for blank input
var ErrEmpty = errors.New("phone number cannot be empty")

// Result describes a parsed applicant phone number.
type Result struct {
	Raw      string `json:"raw"`
	E164     string `json:"e164"`
	National string `json:"national"`
	Intl     string `json:"international"`
	Region   string `json:"region"`
	Valid    bool   `json:"valid"`
}

// Stored returns the value persisted on the lead: E.164 for valid numbers,
// the trimmed input otherwise.
func (r Result) Stored() string {
	if r.Valid {
		return r.E164
	}
	return r.Raw
}

// Parse parses a phone number written by an applicant. Numbers that cannot
// be parsed at all are an error; parsed but invalid numbers are returned
// with Valid=false so the caller can decide.
func Parse(raw, region string) (Result, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, ErrEmpty
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return Result{Raw: raw}, fmt.Errorf("failed to parse phone number: %w", err)
	}

	return Result{
		Raw:      raw,
		E164:     phonenumbers.Format(parsed, phonenumbers.E164),
		National: phonenumbers.Format(parsed, phonenumbers.NATIONAL),
		Intl:     phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL),
		Region:   phonenumbers.GetRegionCodeForNumber(parsed),
		Valid:    phonenumbers.IsValidNumber(parsed),
	}, nil
}

// Display formats a stored number for staff-facing messages. Unparsable
// values are returned unchanged.
func Display(stored string) string {
	r, err := Parse(stored, DefaultRegion)
	if err != nil || !r.Valid {
		return stored
	}
	if r.Region == DefaultRegion {
		return r.National
	}
	return r.Intl
}

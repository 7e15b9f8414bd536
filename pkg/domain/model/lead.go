package model

import (
	"net/mail"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// LeadStatusNew is the status given to freshly captured leads
const LeadStatusNew = "new"

// Lead is a contact captured through the CIS-18 lead form
type Lead struct {
	ID               types.LeadID
	OrganizationID   types.OrganizationID
	Name             string
	Email            string
	Phone            string
	Role             string
	CompanySize      string
	SecurityMaturity string
	Message          string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks the required fields of a lead
func (l *Lead) Validate() error {
	if err := l.OrganizationID.Validate(); err != nil {
		return goerr.Wrap(err, "lead requires an organization")
	}
	if strings.TrimSpace(l.Name) == "" {
		return goerr.Wrap(ErrMissingRequired, "lead name is required", goerr.V(FieldKey, "name"))
	}
	if err := ValidateEmail(l.Email); err != nil {
		return err
	}
	return nil
}

// ValidateEmail checks that s is a bare email address
func ValidateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return goerr.Wrap(ErrMissingRequired, "email is required", goerr.V(FieldKey, "email"))
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return goerr.Wrap(ErrInvalidFormat, "invalid email address", goerr.V(FieldKey, "email"), goerr.V(ValueKey, s))
	}
	return nil
}

// LeadScoreWeights are the weights of the lead scoring sum
type LeadScoreWeights struct {
	CompanySize      map[string]int `toml:"company_size"`
	SecurityMaturity map[string]int `toml:"security_maturity"`
	Phone            int            `toml:"phone"`
	Message          int            `toml:"message"`
}

// DefaultLeadScoreWeights returns the built-in weights
func DefaultLeadScoreWeights() LeadScoreWeights {
	return LeadScoreWeights{
		CompanySize: map[string]int{
			"1-10":     10,
			"11-50":    20,
			"51-200":   30,
			"201-1000": 40,
			"1000+":    50,
		},
		SecurityMaturity: map[string]int{
			"none":         30,
			"basic":        20,
			"intermediate": 10,
			"advanced":     0,
		},
		Phone:   10,
		Message: 10,
	}
}

// CompanySizes returns the known company-size buckets in ascending order
func CompanySizes() []string {
	return []string{"1-10", "11-50", "51-200", "201-1000", "1000+"}
}

// SecurityMaturities returns the known maturity buckets from least to most mature
func SecurityMaturities() []string {
	return []string{"none", "basic", "intermediate", "advanced"}
}

// Score returns the weighted score of l clamped to [0,100]. Unknown buckets weigh 0.
func (w LeadScoreWeights) Score(l *Lead) int {
	s := w.CompanySize[l.CompanySize] + w.SecurityMaturity[l.SecurityMaturity]
	if strings.TrimSpace(l.Phone) != "" {
		s += w.Phone
	}
	if strings.TrimSpace(l.Message) != "" {
		s += w.Message
	}
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}

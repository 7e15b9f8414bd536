package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// Organization is a tenant of the dashboard
type Organization struct {
	ID        types.OrganizationID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate checks name and slug
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return goerr.Wrap(ErrMissingRequired, "organization name is required", goerr.V(FieldKey, "name"))
	}
	if !slugPattern.MatchString(o.Slug) || len(o.Slug) > 63 {
		return goerr.Wrap(ErrInvalidFormat, "slug must be lowercase alphanumerics separated by hyphens",
			goerr.V(FieldKey, "slug"), goerr.V(ValueKey, o.Slug))
	}
	return nil
}

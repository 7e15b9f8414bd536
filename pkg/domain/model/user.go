package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// User is a dashboard account. OrganizationID is empty for platform admins.
type User struct {
	ID             types.UserID
	Email          string
	Name           string
	Role           types.UserRole
	OrganizationID types.OrganizationID
	PasswordHash   string `masq:"secret"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks the account fields
func (u *User) Validate() error {
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if !u.Role.IsValid() {
		return goerr.Wrap(ErrInvalidFormat, "invalid role", goerr.V(FieldKey, "role"), goerr.V(ValueKey, u.Role))
	}
	if u.Role != types.UserRolePlatformAdmin {
		if err := u.OrganizationID.Validate(); err != nil {
			return goerr.Wrap(err, "non platform users require an organization")
		}
	}
	return nil
}

// IsPlatformAdmin reports whether u administers the whole platform
func (u *User) IsPlatformAdmin() bool {
	return u != nil && u.Role == types.UserRolePlatformAdmin
}

// CanAdmin reports whether u may administer orgID
func (u *User) CanAdmin(orgID types.OrganizationID) bool {
	if u == nil {
		return false
	}
	if u.IsPlatformAdmin() {
		return true
	}
	return u.Role == types.UserRoleOrgAdmin && u.OrganizationID == orgID
}

// CanView reports whether u may read data of orgID
func (u *User) CanView(orgID types.OrganizationID) bool {
	if u == nil {
		return false
	}
	return u.IsPlatformAdmin() || u.OrganizationID == orgID
}

package types

import "fmt"

// UserRole represents the authorization level of a dashboard user
type UserRole string

const (
	UserRolePlatformAdmin UserRole = "platform_admin"
	UserRoleOrgAdmin      UserRole = "org_admin"
	UserRoleMember        UserRole = "member"
)

// AllUserRoles returns all valid user roles
func AllUserRoles() []UserRole {
	return []UserRole{
		UserRolePlatformAdmin,
		UserRoleOrgAdmin,
		UserRoleMember,
	}
}

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case UserRolePlatformAdmin, UserRoleOrgAdmin, UserRoleMember:
		return true
	default:
		return false
	}
}

func (r UserRole) String() string {
	return string(r)
}

// ParseUserRole parses a string into a UserRole
func ParseUserRole(s string) (UserRole, error) {
	role := UserRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role: %s", s)
	}
	return role, nil
}

package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// RequireOrgAdmin allows platform admins and admins of orgID
func RequireOrgAdmin(u *model.User, orgID types.OrganizationID) error {
	if !u.CanAdmin(orgID) {
		return goerr.Wrap(ErrPermissionDenied, "organization admin required",
			goerr.V(OrganizationIDKey, orgID), goerr.V(UserIDKey, userIDOf(u)))
	}
	return nil
}

// RequireOrgMember allows platform admins and every member of orgID
func RequireOrgMember(u *model.User, orgID types.OrganizationID) error {
	if !u.CanView(orgID) {
		return goerr.Wrap(ErrPermissionDenied, "organization membership required",
			goerr.V(OrganizationIDKey, orgID), goerr.V(UserIDKey, userIDOf(u)))
	}
	return nil
}

// RequirePlatformAdmin allows platform admins only
func RequirePlatformAdmin(u *model.User) error {
	if !u.IsPlatformAdmin() {
		return goerr.Wrap(ErrPermissionDenied, "platform admin required", goerr.V(UserIDKey, userIDOf(u)))
	}
	return nil
}

func userIDOf(u *model.User) types.UserID {
	if u == nil {
		return ""
	}
	return u.ID
}

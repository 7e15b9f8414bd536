package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// UserUseCase manages dashboard accounts
type UserUseCase struct {
	repo interfaces.Repository
}

// CreateUserInput holds the fields of a new account
type CreateUserInput struct {
	Email          string
	Name           string
	Password       string `masq:"secret"`
	Role           types.UserRole
	OrganizationID types.OrganizationID
}

// NewUserUseCase creates a new UserUseCase instance
func NewUserUseCase(repo interfaces.Repository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// CreateUser registers an account with an argon2id password hash
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	u := &model.User{
		Email:          model.NormalizeEmail(input.Email),
		Name:           strings.TrimSpace(input.Name),
		Role:           input.Role,
		OrganizationID: input.OrganizationID,
	}
	if u.Role == types.UserRolePlatformAdmin {
		u.OrganizationID = ""
	}
	if err := u.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user")
	}

	if u.OrganizationID != "" {
		if _, err := uc.repo.Organization().Get(ctx, u.OrganizationID); err != nil {
			return nil, goerr.Wrap(err, "failed to get organization of user", goerr.V(OrganizationIDKey, u.OrganizationID))
		}
	}

	existing, err := uc.repo.User().GetByEmail(ctx, u.Email)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up email")
	}
	if existing != nil {
		return nil, goerr.Wrap(ErrEmailTaken, "email is in use", goerr.V("email", u.Email))
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash

	created, err := uc.repo.User().Create(ctx, u)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("email", u.Email))
	}
	logging.From(ctx).Info("user created", "user_id", created.ID, "role", created.Role, "organization_id", created.OrganizationID)
	return created, nil
}

// GetUser returns an account by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	u, err := uc.repo.User().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(UserIDKey, id))
	}
	return u, nil
}

// GetUserByEmail returns the account with email, or ErrNotFound
func (uc *UserUseCase) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := uc.repo.User().GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up email")
	}
	if u == nil {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("email", email))
	}
	return u, nil
}

// ListUsers returns the accounts of an organization; an empty orgID lists all
func (uc *UserUseCase) ListUsers(ctx context.Context, orgID types.OrganizationID) ([]*model.User, error) {
	users, err := uc.repo.User().List(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users", goerr.V(OrganizationIDKey, orgID))
	}
	return users, nil
}

// ChangePassword replaces the password of an account
func (uc *UserUseCase) ChangePassword(ctx context.Context, id types.UserID, password string) error {
	u, err := uc.GetUser(ctx, id)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if _, err := uc.repo.User().Update(ctx, u); err != nil {
		return goerr.Wrap(err, "failed to update password", goerr.V(UserIDKey, id))
	}
	return nil
}

// UpdateRole changes the role and organization of an account
func (uc *UserUseCase) UpdateRole(ctx context.Context, id types.UserID, role types.UserRole, orgID types.OrganizationID) (*model.User, error) {
	u, err := uc.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	u.OrganizationID = orgID
	if role == types.UserRolePlatformAdmin {
		u.OrganizationID = ""
	}
	if err := u.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user", goerr.V(UserIDKey, id))
	}

	updated, err := uc.repo.User().Update(ctx, u)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update user", goerr.V(UserIDKey, id))
	}
	return updated, nil
}

// DeleteUser removes an account
func (uc *UserUseCase) DeleteUser(ctx context.Context, id types.UserID) error {
	if err := uc.repo.User().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V(UserIDKey, id))
	}
	return nil
}

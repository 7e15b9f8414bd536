package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// NoAuthnUseCase authenticates every request as a fixed user (for development/testing)
type NoAuthnUseCase struct {
	repo  interfaces.Repository
	email string
}

// NewNoAuthnUseCase creates a new NoAuthnUseCase acting as the user with email
func NewNoAuthnUseCase(repo interfaces.Repository, email string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		repo:  repo,
		email: model.NormalizeEmail(email),
	}
}

// Login ignores the credentials and returns the fixed user without a token
func (uc *NoAuthnUseCase) Login(ctx context.Context, _, _ string) (*model.User, string, error) {
	u, err := uc.ValidateToken(ctx, "")
	if err != nil {
		return nil, "", err
	}
	return u, "", nil
}

// ValidateToken returns the stored account with the configured email. When no
// such account exists a platform admin with a stable ID derived from the email
// is returned.
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, _ string) (*model.User, error) {
	u, err := uc.repo.User().GetByEmail(ctx, uc.email)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up no-auth user", goerr.V("email", uc.email))
	}
	if u != nil {
		return u, nil
	}

	return &model.User{
		ID:    types.UserID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("cisboard:user:"+uc.email)).String()),
		Email: uc.email,
		Name:  uc.email,
		Role:  types.UserRolePlatformAdmin,
	}, nil
}

// SessionTTL returns the default lifetime; no token is issued in no-auth mode
func (uc *NoAuthnUseCase) SessionTTL() time.Duration {
	return DefaultSessionTTL
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

const (
	// SessionCookieName is the cookie carrying the signed session token
	SessionCookieName = "cisboard_session"
	// DefaultSessionTTL is the lifetime of a session token
	DefaultSessionTTL = 24 * time.Hour
	// MinSessionSecretLength is the shortest accepted HS256 signing secret
	MinSessionSecretLength = 32

	tokenIssuer  = "cisboard"
	userCacheTTL = time.Minute
)

// AuthUseCaseInterface authenticates dashboard users
type AuthUseCaseInterface interface {
	// Login checks the credentials and returns the user with a signed session token
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// ValidateToken returns the user the session token was issued to
	ValidateToken(ctx context.Context, token string) (*model.User, error)
	SessionTTL() time.Duration
	IsNoAuthn() bool
}

// AuthUseCase issues and validates HS256 session tokens for password logins
type AuthUseCase struct {
	repo  interfaces.Repository
	key   []byte
	ttl   time.Duration
	now   func() time.Time
	cache *ttlCache[types.UserID, *model.User]
}

type AuthOption func(*AuthUseCase)

// WithSessionTTL sets the lifetime of issued tokens
func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.ttl = ttl
	}
}

// WithClock replaces the time source, for tests
func WithClock(now func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.now = now
	}
}

// NewAuthUseCase creates a new AuthUseCase signing tokens with secret
func NewAuthUseCase(repo interfaces.Repository, secret []byte, options ...AuthOption) (*AuthUseCase, error) {
	if len(secret) < MinSessionSecretLength {
		return nil, goerr.New("session secret is too short", goerr.V("min_length", MinSessionSecretLength))
	}

	uc := &AuthUseCase{
		repo:  repo,
		key:   secret,
		ttl:   DefaultSessionTTL,
		now:   time.Now,
		cache: newTTLCache[types.UserID, *model.User](userCacheTTL),
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc, nil
}

// IsNoAuthn returns false for AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// SessionTTL returns the lifetime of issued tokens
func (uc *AuthUseCase) SessionTTL() time.Duration {
	return uc.ttl
}

// Login verifies email and password and issues a session token
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = model.NormalizeEmail(email)
	u, err := uc.repo.User().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to look up user")
	}
	if u == nil {
		return nil, "", goerr.Wrap(ErrInvalidCredentials, "unknown email", goerr.V("email", email))
	}

	ok, err := VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to verify password", goerr.V(UserIDKey, u.ID))
	}
	if !ok {
		return nil, "", goerr.Wrap(ErrInvalidCredentials, "password mismatch", goerr.V(UserIDKey, u.ID))
	}

	token, err := uc.issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	uc.cache.set(u.ID, u)

	logging.From(ctx).Info("user logged in", "user_id", u.ID)
	return u, token, nil
}

func (uc *AuthUseCase) issue(userID types.UserID) (string, error) {
	now := uc.now()
	tok, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(userID.String()).
		IssuedAt(now).
		Expiration(now.Add(uc.ttl)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build session token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.key))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign session token")
	}
	return string(signed), nil
}

// ValidateToken verifies signature, issuer and expiry, then loads the user
func (uc *AuthUseCase) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, uc.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithClock(jwt.ClockFunc(uc.now)),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "token rejected", goerr.V("reason", err.Error()))
	}

	userID := types.UserID(tok.Subject())
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "token subject is not a user ID")
	}

	if u, ok := uc.cache.get(userID); ok {
		return u, nil
	}

	u, err := uc.repo.User().Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, goerr.Wrap(ErrInvalidToken, "token user no longer exists", goerr.V(UserIDKey, userID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get token user", goerr.V(UserIDKey, userID))
	}
	uc.cache.set(userID, u)
	return u, nil
}

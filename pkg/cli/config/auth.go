package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for dashboard sessions
type Auth struct {
	sessionSecret string
	noAuthEmail   string
	sessionTTL    time.Duration
	secureCookie  bool
}

// Flags returns CLI flags for authentication
func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-secret",
			Usage:       "HS256 signing secret for session tokens (at least 32 bytes)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("CISBOARD_SESSION_SECRET"),
			Destination: &x.sessionSecret,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Lifetime of a session token",
			Category:    "Authentication",
			Value:       usecase.DefaultSessionTTL,
			Sources:     cli.EnvVars("CISBOARD_SESSION_TTL"),
			Destination: &x.sessionTTL,
		},
		&cli.BoolFlag{
			Name:        "secure-cookie",
			Usage:       "Always mark the session cookie Secure",
			Category:    "Authentication",
			Sources:     cli.EnvVars("CISBOARD_SECURE_COOKIE"),
			Destination: &x.secureCookie,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and act as the user with this email (development only). Example: --no-auth=admin@example.com",
			Category:    "Authentication",
			Sources:     cli.EnvVars("CISBOARD_NO_AUTH"),
			Destination: &x.noAuthEmail,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("session-secret.len", len(x.sessionSecret)),
		slog.Duration("session-ttl", x.sessionTTL),
		slog.Bool("secure-cookie", x.secureCookie),
		slog.String("no-auth", x.noAuthEmail),
	)
}

// IsNoAuthMode returns true if no-auth mode is enabled
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthEmail != ""
}

// SecureCookie returns whether the session cookie is forced to Secure
func (x *Auth) SecureCookie() bool {
	return x.secureCookie
}

// Configure returns the password authenticator, or the no-auth authenticator when
// --no-auth is set
func (x *Auth) Configure(repo interfaces.Repository) (usecase.AuthUseCaseInterface, error) {
	if x.noAuthEmail != "" {
		if x.sessionSecret != "" {
			logging.Default().Warn("--no-auth is set, ignoring --session-secret")
		}
		logging.Default().Warn("Running in no-auth mode (development only)", "email", x.noAuthEmail)
		return usecase.NewNoAuthnUseCase(repo, x.noAuthEmail), nil
	}

	if x.sessionSecret == "" {
		return nil, goerr.Wrap(ErrMissingFlag, "session secret is required: set --session-secret, or use --no-auth",
			goerr.V(FlagKey, "session-secret"))
	}
	if len(x.sessionSecret) < usecase.MinSessionSecretLength {
		return nil, goerr.Wrap(ErrWeakSessionSecret, "session secret is too short",
			goerr.V("min_length", usecase.MinSessionSecretLength))
	}

	opts := []usecase.AuthOption{}
	if x.sessionTTL > 0 {
		opts = append(opts, usecase.WithSessionTTL(x.sessionTTL))
	}
	auth, err := usecase.NewAuthUseCase(repo, []byte(x.sessionSecret), opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create auth use case")
	}
	return auth, nil
}

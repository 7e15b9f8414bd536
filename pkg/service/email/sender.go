package email

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// Default REST endpoints of the API based providers
const (
	DefaultSendGridURL = "https://api.sendgrid.com/v3/mail/send"
	DefaultResendURL   = "https://api.resend.com/emails"
)

// ErrUnsupportedProvider is returned for a provider kind the sender does not know
var ErrUnsupportedProvider = goerr.New("unsupported email provider")

// Sender delivers email through the provider configured for an organization
type Sender struct {
	httpClient  *http.Client
	sendGridURL string
	resendURL   string
	smtpTimeout time.Duration
}

// Option is a functional option for Sender
type Option func(*Sender)

// WithHTTPClient sets the client used for REST providers
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		s.httpClient = c
	}
}

// WithSendGridURL overrides the SendGrid endpoint
func WithSendGridURL(url string) Option {
	return func(s *Sender) {
		s.sendGridURL = url
	}
}

// WithResendURL overrides the Resend endpoint
func WithResendURL(url string) Option {
	return func(s *Sender) {
		s.resendURL = url
	}
}

// WithSMTPTimeout sets the dial and send timeout for SMTP
func WithSMTPTimeout(d time.Duration) Option {
	return func(s *Sender) {
		s.smtpTimeout = d
	}
}

// New creates a Sender
func New(opts ...Option) *Sender {
	s := &Sender{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		sendGridURL: DefaultSendGridURL,
		resendURL:   DefaultResendURL,
		smtpTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers msg with the provider selected by cfg.Kind
func (s *Sender) Send(ctx context.Context, cfg *model.EmailProviderConfig, msg *model.EmailMessage) error {
	if err := cfg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid email provider config")
	}
	if err := msg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid email message")
	}

	switch cfg.Kind {
	case types.EmailProviderSMTP:
		return s.sendSMTP(ctx, cfg, msg)
	case types.EmailProviderSendGrid:
		return s.sendSendGrid(ctx, cfg, msg)
	case types.EmailProviderResend:
		return s.sendResend(ctx, cfg, msg)
	default:
		return goerr.Wrap(ErrUnsupportedProvider, "cannot send email", goerr.V("kind", cfg.Kind))
	}
}

package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// MaskedSecret replaces configured secrets when a config is rendered
const MaskedSecret = "********"

// EmailProviderConfig is the outgoing email setup of an organization. Exactly the
// settings matching Kind are used.
type EmailProviderConfig struct {
	OrganizationID types.OrganizationID
	Kind           types.EmailProviderKind
	SMTP           SMTPSettings
	APIKey         string `masq:"secret"` // sendgrid and resend
	FromAddress    string
	FromName       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SMTPSettings holds the SMTP variant fields
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string `masq:"secret"`
	TLS      bool
}

// Validate checks the fields required by the configured provider
func (c *EmailProviderConfig) Validate() error {
	if err := c.OrganizationID.Validate(); err != nil {
		return goerr.Wrap(err, "email config requires an organization")
	}
	if err := ValidateEmail(c.FromAddress); err != nil {
		return goerr.Wrap(err, "invalid from address")
	}

	switch c.Kind {
	case types.EmailProviderSMTP:
		if strings.TrimSpace(c.SMTP.Host) == "" {
			return goerr.Wrap(ErrMissingRequired, "smtp host is required", goerr.V(FieldKey, "smtp.host"))
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return goerr.Wrap(ErrOutOfRange, "smtp port is out of range",
				goerr.V(FieldKey, "smtp.port"), goerr.V(ValueKey, c.SMTP.Port))
		}
	case types.EmailProviderSendGrid, types.EmailProviderResend:
		if strings.TrimSpace(c.APIKey) == "" {
			return goerr.Wrap(ErrMissingRequired, "api key is required", goerr.V(FieldKey, "api_key"))
		}
	default:
		return goerr.Wrap(ErrInvalidFormat, "unsupported email provider", goerr.V(FieldKey, "kind"), goerr.V(ValueKey, c.Kind))
	}
	return nil
}

// Masked returns a copy safe to render: secrets are replaced by MaskedSecret
func (c *EmailProviderConfig) Masked() *EmailProviderConfig {
	if c == nil {
		return nil
	}
	m := *c
	if m.APIKey != "" {
		m.APIKey = MaskedSecret
	}
	if m.SMTP.Password != "" {
		m.SMTP.Password = MaskedSecret
	}
	return &m
}

// MergeSecrets keeps the secrets of prev when c carries the masked placeholder or
// nothing, so a form re-submitting masked values does not wipe stored secrets.
// A placeholder that cannot be resolved is cleared.
func (c *EmailProviderConfig) MergeSecrets(prev *EmailProviderConfig) {
	if prev == nil || prev.Kind != c.Kind {
		if c.APIKey == MaskedSecret {
			c.APIKey = ""
		}
		if c.SMTP.Password == MaskedSecret {
			c.SMTP.Password = ""
		}
		return
	}
	if c.APIKey == "" || c.APIKey == MaskedSecret {
		c.APIKey = prev.APIKey
	}
	if c.SMTP.Password == "" || c.SMTP.Password == MaskedSecret {
		c.SMTP.Password = prev.SMTP.Password
	}
}

// EmailMessage is a single outgoing email
type EmailMessage struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Validate checks recipients and subject
func (m *EmailMessage) Validate() error {
	if len(m.To) == 0 {
		return goerr.Wrap(ErrMissingRequired, "at least one recipient is required", goerr.V(FieldKey, "to"))
	}
	for _, to := range m.To {
		if err := ValidateEmail(to); err != nil {
			return err
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return goerr.Wrap(ErrMissingRequired, "subject is required", goerr.V(FieldKey, "subject"))
	}
	if m.Text == "" && m.HTML == "" {
		return goerr.Wrap(ErrMissingRequired, "body is required", goerr.V(FieldKey, "body"))
	}
	return nil
}

package types

import "fmt"

// EmailProviderKind selects the transport used to send organization email
type EmailProviderKind string

const (
	EmailProviderSMTP     EmailProviderKind = "smtp"
	EmailProviderSendGrid EmailProviderKind = "sendgrid"
	EmailProviderResend   EmailProviderKind = "resend"
)

// AllEmailProviderKinds returns all supported providers
func AllEmailProviderKinds() []EmailProviderKind {
	return []EmailProviderKind{
		EmailProviderSMTP,
		EmailProviderSendGrid,
		EmailProviderResend,
	}
}

// IsValid checks if the provider kind is supported
func (k EmailProviderKind) IsValid() bool {
	switch k {
	case EmailProviderSMTP, EmailProviderSendGrid, EmailProviderResend:
		return true
	default:
		return false
	}
}

func (k EmailProviderKind) String() string {
	return string(k)
}

// ParseEmailProviderKind parses a string into an EmailProviderKind
func ParseEmailProviderKind(s string) (EmailProviderKind, error) {
	k := EmailProviderKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid email provider: %s", s)
	}
	return k, nil
}

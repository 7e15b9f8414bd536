package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/cisboard/pkg/service/email"
	"github.com/urfave/cli/v3"
)

// Email holds CLI flags shared by every organization's email provider
type Email struct {
	smtpTimeout time.Duration
	sendGridURL string
	resendURL   string
}

// Flags returns CLI flags for email delivery
func (x *Email) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "smtp-timeout",
			Usage:       "Dial and send timeout for SMTP providers",
			Category:    "Email",
			Value:       30 * time.Second,
			Destination: &x.smtpTimeout,
			Sources:     cli.EnvVars("CISBOARD_SMTP_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "sendgrid-url",
			Usage:       "SendGrid mail send endpoint",
			Category:    "Email",
			Value:       email.DefaultSendGridURL,
			Destination: &x.sendGridURL,
			Sources:     cli.EnvVars("CISBOARD_SENDGRID_URL"),
		},
		&cli.StringFlag{
			Name:        "resend-url",
			Usage:       "Resend emails endpoint",
			Category:    "Email",
			Value:       email.DefaultResendURL,
			Destination: &x.resendURL,
			Sources:     cli.EnvVars("CISBOARD_RESEND_URL"),
		},
	}
}

func (x Email) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("smtp-timeout", x.smtpTimeout),
		slog.String("sendgrid-url", x.sendGridURL),
		slog.String("resend-url", x.resendURL),
	)
}

// Configure creates the sender used for every organization
func (x *Email) Configure() *email.Sender {
	opts := []email.Option{}
	if x.smtpTimeout > 0 {
		opts = append(opts, email.WithSMTPTimeout(x.smtpTimeout))
	}
	if x.sendGridURL != "" {
		opts = append(opts, email.WithSendGridURL(x.sendGridURL))
	}
	if x.resendURL != "" {
		opts = append(opts, email.WithResendURL(x.resendURL))
	}
	return email.New(opts...)
}

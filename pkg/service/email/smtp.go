package email

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/wneessen/go-mail"
)

const implicitTLSPort = 465

func buildSMTPMessage(cfg *model.EmailProviderConfig, msg *model.EmailMessage) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(cfg.FromName, cfg.FromAddress); err != nil {
		return nil, goerr.Wrap(err, "invalid from address", goerr.V("from", cfg.FromAddress))
	}
	if err := m.To(msg.To...); err != nil {
		return nil, goerr.Wrap(err, "invalid recipient", goerr.V("to", msg.To))
	}
	m.Subject(msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

func (s *Sender) smtpClient(cfg *model.EmailProviderConfig) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTP.Port),
		mail.WithTimeout(s.smtpTimeout),
	}
	if cfg.SMTP.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP.Username),
			mail.WithPassword(cfg.SMTP.Password),
		)
	}
	switch {
	case cfg.SMTP.TLS && cfg.SMTP.Port == implicitTLSPort:
		opts = append(opts, mail.WithSSL())
	case cfg.SMTP.TLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	c, err := mail.NewClient(cfg.SMTP.Host, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create SMTP client", goerr.V("host", cfg.SMTP.Host))
	}
	return c, nil
}

func (s *Sender) sendSMTP(ctx context.Context, cfg *model.EmailProviderConfig, msg *model.EmailMessage) error {
	m, err := buildSMTPMessage(cfg, msg)
	if err != nil {
		return err
	}
	c, err := s.smtpClient(cfg)
	if err != nil {
		return err
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return goerr.Wrap(err, "failed to send email via SMTP",
			goerr.V("host", cfg.SMTP.Host),
			goerr.V("port", cfg.SMTP.Port))
	}
	return nil
}

package email

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/mail"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/utils/safe"
)

// maxErrorBody bounds how much of a provider error response is kept
const maxErrorBody = 4096

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []struct {
		To []sendGridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendGridAddress   `json:"from"`
	Subject string            `json:"subject"`
	Content []sendGridContent `json:"content"`
}

func newSendGridRequest(cfg *model.EmailProviderConfig, msg *model.EmailMessage) *sendGridRequest {
	req := &sendGridRequest{
		From:    sendGridAddress{Email: cfg.FromAddress, Name: cfg.FromName},
		Subject: msg.Subject,
	}
	req.Personalizations = make([]struct {
		To []sendGridAddress `json:"to"`
	}, 1)
	for _, to := range msg.To {
		req.Personalizations[0].To = append(req.Personalizations[0].To, sendGridAddress{Email: to})
	}
	// SendGrid requires text/plain before text/html
	if msg.Text != "" {
		req.Content = append(req.Content, sendGridContent{Type: "text/plain", Value: msg.Text})
	}
	if msg.HTML != "" {
		req.Content = append(req.Content, sendGridContent{Type: "text/html", Value: msg.HTML})
	}
	return req
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

func newResendRequest(cfg *model.EmailProviderConfig, msg *model.EmailMessage) *resendRequest {
	from := (&mail.Address{Name: cfg.FromName, Address: cfg.FromAddress}).String()
	return &resendRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}
}

func (s *Sender) sendSendGrid(ctx context.Context, cfg *model.EmailProviderConfig, msg *model.EmailMessage) error {
	return s.postJSON(ctx, "sendgrid", s.sendGridURL, cfg.APIKey, newSendGridRequest(cfg, msg))
}

func (s *Sender) sendResend(ctx context.Context, cfg *model.EmailProviderConfig, msg *model.EmailMessage) error {
	return s.postJSON(ctx, "resend", s.resendURL, cfg.APIKey, newResendRequest(cfg, msg))
}

func (s *Sender) postJSON(ctx context.Context, provider, url, apiKey string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return goerr.Wrap(err, "failed to encode email request", goerr.V("provider", provider))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to build email request", goerr.V("provider", provider))
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call email provider", goerr.V("provider", provider))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return goerr.New("email provider rejected the request",
			goerr.V("provider", provider),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)))
	}
	return nil
}

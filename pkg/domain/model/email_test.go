package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

func TestEmailProviderConfigValidate(t *testing.T) {
	orgID := types.NewOrganizationID()
	base := func(kind types.EmailProviderKind) *model.EmailProviderConfig {
		return &model.EmailProviderConfig{OrganizationID: orgID, Kind: kind, FromAddress: "noreply@example.com"}
	}

	t.Run("smtp requires host and port", func(t *testing.T) {
		c := base(types.EmailProviderSMTP)
		gt.Bool(t, errors.Is(c.Validate(), model.ErrMissingRequired)).True()
		c.SMTP.Host = "smtp.example.com"
		gt.Bool(t, errors.Is(c.Validate(), model.ErrOutOfRange)).True()
		c.SMTP.Port = 587
		gt.NoError(t, c.Validate())
	})

	t.Run("api providers require a key", func(t *testing.T) {
		for _, kind := range []types.EmailProviderKind{types.EmailProviderSendGrid, types.EmailProviderResend} {
			c := base(kind)
			gt.Bool(t, errors.Is(c.Validate(), model.ErrMissingRequired)).True()
			c.APIKey = "key"
			gt.NoError(t, c.Validate())
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		c := base("pigeon")
		gt.Bool(t, errors.Is(c.Validate(), model.ErrInvalidFormat)).True()
	})
}

func TestEmailProviderConfigMasking(t *testing.T) {
	stored := &model.EmailProviderConfig{
		Kind:   types.EmailProviderSMTP,
		SMTP:   model.SMTPSettings{Host: "smtp.example.com", Port: 25, Password: "hunter2"},
		APIKey: "",
	}

	masked := stored.Masked()
	gt.Value(t, masked.SMTP.Password).Equal(model.MaskedSecret)
	gt.Value(t, masked.APIKey).Equal("")
	gt.Value(t, stored.SMTP.Password).Equal("hunter2")

	resubmitted := *masked
	resubmitted.MergeSecrets(stored)
	gt.Value(t, resubmitted.SMTP.Password).Equal("hunter2")

	changed := *masked
	changed.SMTP.Password = "new-password"
	changed.MergeSecrets(stored)
	gt.Value(t, changed.SMTP.Password).Equal("new-password")
}

func TestEmailMessageValidate(t *testing.T) {
	m := &model.EmailMessage{}
	gt.Bool(t, errors.Is(m.Validate(), model.ErrMissingRequired)).True()

	m.To = []string{"a@example.com"}
	m.Subject = "hello"
	gt.Bool(t, errors.Is(m.Validate(), model.ErrMissingRequired)).True()

	m.Text = "body"
	gt.NoError(t, m.Validate())
}

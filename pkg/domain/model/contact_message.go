package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// ContactMessage is a message sent through the public contact form
type ContactMessage struct {
	ID        types.ContactMessageID
	Name      string
	Email     string
	Subject   string
	Body      string
	Read      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the required fields
func (m *ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return goerr.Wrap(ErrMissingRequired, "name is required", goerr.V(FieldKey, "name"))
	}
	if err := ValidateEmail(m.Email); err != nil {
		return err
	}
	if strings.TrimSpace(m.Body) == "" {
		return goerr.Wrap(ErrMissingRequired, "message body is required", goerr.V(FieldKey, "body"))
	}
	return nil
}

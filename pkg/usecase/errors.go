package usecase

import (
	"errors"

	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrNotFound = interfaces.ErrNotFound

	// Conflict errors
	ErrSlugTaken  = errors.New("organization slug is already taken")
	ErrEmailTaken = errors.New("email is already registered")

	// Authentication and access control errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrPermissionDenied   = errors.New("permission denied")

	// Feature availability errors
	ErrChatDisabled       = errors.New("chat is not configured")
	ErrEmailNotConfigured = errors.New("email provider is not configured")

	// Other errors
	ErrWeakPassword = errors.New("password is too short")
)

// Context keys for error values
const (
	OrganizationIDKey = "organization_id"
	AssessmentIDKey   = "assessment_id"
	UserIDKey         = "user_id"
	LeadIDKey         = "lead_id"
)

// IsInvalidInput reports whether err was caused by a rejected input value
func IsInvalidInput(err error) bool {
	return errors.Is(err, model.ErrMissingRequired) ||
		errors.Is(err, model.ErrOutOfRange) ||
		errors.Is(err, model.ErrInvalidFormat) ||
		errors.Is(err, types.ErrInvalidColumn) ||
		errors.Is(err, types.ErrInvalidID) ||
		errors.Is(err, ErrWeakPassword)
}

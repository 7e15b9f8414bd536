package usecase

import (
	"time"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
)

// TrimHistory is exported for testing
var TrimHistory = trimHistory

// BuildSystemPrompt is exported for testing
func (uc *ChatUseCase) BuildSystemPrompt(user *model.User, org *model.Organization, latest *model.Assessment, emailEnabled bool, history []ChatMessage) (string, error) {
	return uc.buildSystemPrompt(user, org, latest, emailEnabled, history)
}

// SetClock replaces the time source of the assessment use case
func (uc *AssessmentUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// SetRandom replaces the random source of the test-data generator
func (uc *AssessmentUseCase) SetRandom(random func(n int) int) {
	uc.random = random
}

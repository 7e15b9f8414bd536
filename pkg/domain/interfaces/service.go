package interfaces

import (
	"context"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
)

// Notifier delivers operator notifications (Slack)
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// EmailSender delivers a message through the provider described by cfg
type EmailSender interface {
	Send(ctx context.Context, cfg *model.EmailProviderConfig, msg *model.EmailMessage) error
}

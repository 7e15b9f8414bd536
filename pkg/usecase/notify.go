package usecase

import (
	"context"
	"strings"

	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/utils/async"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// notifier sends operator notifications without blocking the request that caused them
type notifier struct {
	notifier interfaces.Notifier
	baseURL  string
}

func (n *notifier) link(path string) string {
	if n.baseURL == "" {
		return ""
	}
	return strings.TrimRight(n.baseURL, "/") + path
}

func (n *notifier) send(ctx context.Context, msg *model.Notification) {
	if n == nil || n.notifier == nil {
		logging.From(ctx).Debug("notification skipped, no notifier configured", "title", msg.Title)
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return n.notifier.Notify(ctx, msg)
	})
}

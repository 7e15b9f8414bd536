package mail

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/cisboard/pkg/agent/tool"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// TestSender sends the provider check email of an organization
type TestSender interface {
	TestEmail(ctx context.Context, orgID types.OrganizationID, to string) error
}

// New builds the email tools of the chatbot
func New(sender TestSender, orgID types.OrganizationID) []gollem.Tool {
	return []gollem.Tool{
		&sendTestTool{sender: sender, orgID: orgID},
	}
}

type sendTestTool struct {
	sender TestSender
	orgID  types.OrganizationID
}

func (t *sendTestTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "email__send_test",
		Description: "Send a test email through the organization's configured email provider to check the settings",
		Parameters: map[string]*gollem.Parameter{
			"to": {
				Type:        gollem.TypeString,
				Description: "Recipient email address",
				Required:    true,
			},
		},
	}
}

func (t *sendTestTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	to := tool.StringArg(args, "to")
	if to == "" {
		return nil, goerr.New("to is required")
	}

	tool.Update(ctx, "Sending test email...")
	if err := t.sender.TestEmail(ctx, t.orgID, to); err != nil {
		return nil, goerr.Wrap(err, "failed to send test email", goerr.V("to", to))
	}
	return map[string]any{"sent": true, "to": to}, nil
}

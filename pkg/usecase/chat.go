package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/cisboard/pkg/agent/tool"
	assessmenttool "github.com/secmon-lab/cisboard/pkg/agent/tool/assessment"
	mailtool "github.com/secmon-lab/cisboard/pkg/agent/tool/mail"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

//go:embed prompt/chat_system.md
var chatSystemPromptTmpl string

var chatSystemPrompt = template.Must(template.New("chat_system").Parse(chatSystemPromptTmpl))

const (
	maxChatHistory       = 20
	maxChatMessageLength = 4000
)

// Chat roles accepted in history
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one earlier turn of the conversation, kept by the client
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatUseCase answers questions about an organization's assessments with an LLM agent
type ChatUseCase struct {
	repo      interfaces.Repository
	llmClient gollem.LLMClient
	email     *EmailUseCase
	addendum  string
	locale    cis18.Locale
}

// NewChatUseCase creates a new ChatUseCase instance. A nil llmClient disables chat.
func NewChatUseCase(repo interfaces.Repository, llmClient gollem.LLMClient, email *EmailUseCase, addendum string, locale cis18.Locale) *ChatUseCase {
	return &ChatUseCase{
		repo:      repo,
		llmClient: llmClient,
		email:     email,
		addendum:  addendum,
		locale:    locale,
	}
}

// Enabled reports whether an LLM is configured
func (uc *ChatUseCase) Enabled() bool {
	return uc.llmClient != nil
}

type chatPromptControl struct {
	Number   int
	Name     string
	Score    int
	Assessed bool
}

type chatPromptGroup struct {
	Name     string
	Subtotal int
}

type chatPromptAssessment struct {
	Date     string
	Total    int
	Groups   []chatPromptGroup
	Controls []chatPromptControl
}

type chatPromptData struct {
	UserName         string
	OrganizationName string
	Controls         []chatPromptControl
	Latest           *chatPromptAssessment
	EmailEnabled     bool
	History          []ChatMessage
	Addendum         string
}

func (uc *ChatUseCase) buildSystemPrompt(user *model.User, org *model.Organization, latest *model.Assessment, emailEnabled bool, history []ChatMessage) (string, error) {
	data := chatPromptData{
		UserName:         user.Name,
		OrganizationName: org.Name,
		EmailEnabled:     emailEnabled,
		History:          trimHistory(history),
		Addendum:         uc.addendum,
	}
	if data.UserName == "" {
		data.UserName = user.Email
	}

	for _, c := range cis18.Controls() {
		data.Controls = append(data.Controls, chatPromptControl{Number: c.Number, Name: c.Name(uc.locale)})
	}

	if latest != nil {
		pa := &chatPromptAssessment{Date: latest.DateString(), Total: latest.Mean()}
		for _, g := range cis18.DisplayGroups() {
			pa.Groups = append(pa.Groups, chatPromptGroup{Name: g.Name(uc.locale), Subtotal: g.Mean(latest.Controls)})
		}
		for _, c := range cis18.Controls() {
			pc := chatPromptControl{Number: c.Number}
			if v := latest.Controls.Get(c.Number); v != nil {
				pc.Score = *v
				pc.Assessed = true
			}
			pa.Controls = append(pa.Controls, pc)
		}
		data.Latest = pa
	}

	var buf bytes.Buffer
	if err := chatSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render chat system prompt")
	}
	return buf.String(), nil
}

// trimHistory keeps the most recent turns with known roles and bounded length
func trimHistory(history []ChatMessage) []ChatMessage {
	var out []ChatMessage
	for _, m := range history {
		if m.Role != ChatRoleUser && m.Role != ChatRoleAssistant {
			continue
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		if r := []rune(content); len(r) > maxChatMessageLength {
			content = string(r[:maxChatMessageLength])
		}
		out = append(out, ChatMessage{Role: m.Role, Content: content})
	}
	if len(out) > maxChatHistory {
		out = out[len(out)-maxChatHistory:]
	}
	return out
}

// Chat answers message in the context of the organization's assessments
func (uc *ChatUseCase) Chat(ctx context.Context, user *model.User, orgID types.OrganizationID, message string, history []ChatMessage) (string, error) {
	if !uc.Enabled() {
		return "", goerr.Wrap(ErrChatDisabled, "no LLM client")
	}
	if err := RequireOrgMember(user, orgID); err != nil {
		return "", err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", goerr.Wrap(model.ErrMissingRequired, "message is required", goerr.V(model.FieldKey, "message"))
	}
	if len([]rune(message)) > maxChatMessageLength {
		return "", goerr.Wrap(model.ErrOutOfRange, "message is too long",
			goerr.V(model.FieldKey, "message"), goerr.V("max_length", maxChatMessageLength))
	}

	org, err := uc.repo.Organization().Get(ctx, orgID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get organization", goerr.V(OrganizationIDKey, orgID))
	}
	latest, err := uc.repo.Assessment().GetLatest(ctx, orgID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get latest assessment", goerr.V(OrganizationIDKey, orgID))
	}

	tools := assessmenttool.New(uc.repo, orgID, uc.locale)
	emailEnabled := false
	if uc.email != nil {
		if emailEnabled, err = uc.email.IsConfigured(ctx, orgID); err != nil {
			return "", err
		}
	}
	if emailEnabled {
		tools = append(tools, mailtool.New(uc.email, orgID)...)
	}

	systemPrompt, err := uc.buildSystemPrompt(user, org, latest, emailEnabled, history)
	if err != nil {
		return "", err
	}

	logger := logging.From(ctx)
	ctx = tool.WithUpdate(ctx, func(ctx context.Context, msg string) {
		logger.Debug("chat tool progress", "organization_id", orgID, "message", msg)
	})

	agent := gollem.New(uc.llmClient,
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithTools(tools...),
	)
	resp, err := agent.Execute(ctx, gollem.Text(message))
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute chat agent", goerr.V(OrganizationIDKey, orgID))
	}
	if resp == nil {
		return "", nil
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "\n")), nil
}

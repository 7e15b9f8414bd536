package usecase

import (
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// DefaultPreferenceCacheTTL is how long a column preference stays cached in process
const DefaultPreferenceCacheTTL = 5 * time.Minute

type UseCases struct {
	repo           interfaces.Repository
	notifier       interfaces.Notifier
	emailSender    interfaces.EmailSender
	llmClient      gollem.LLMClient
	leadWeights    model.LeadScoreWeights
	defaultColumns []types.ColumnID
	preferenceTTL  time.Duration
	chatAddendum   string
	locale         cis18.Locale
	baseURL        string

	Assessment     *AssessmentUseCase
	Lead           *LeadUseCase
	Preference     *PreferenceUseCase
	Organization   *OrganizationUseCase
	User           *UserUseCase
	Contact        *ContactUseCase
	ServiceRequest *ServiceRequestUseCase
	Email          *EmailUseCase
	Chat           *ChatUseCase
	Auth           AuthUseCaseInterface
}

type Option func(*UseCases)

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithNotifier sets the destination of operator notifications
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

func WithEmailSender(s interfaces.EmailSender) Option {
	return func(uc *UseCases) {
		uc.emailSender = s
	}
}

// WithLLMClient enables the chatbot
func WithLLMClient(c gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = c
	}
}

func WithLeadScoreWeights(w model.LeadScoreWeights) Option {
	return func(uc *UseCases) {
		uc.leadWeights = w
	}
}

// WithDefaultColumns sets the table columns shown when a user saved none
func WithDefaultColumns(cols []types.ColumnID) Option {
	return func(uc *UseCases) {
		uc.defaultColumns = cols
	}
}

// WithPreferenceCacheTTL sets the TTL of the column preference cache. Zero disables it.
func WithPreferenceCacheTTL(ttl time.Duration) Option {
	return func(uc *UseCases) {
		uc.preferenceTTL = ttl
	}
}

// WithChatPromptAddendum appends operator supplied instructions to the chatbot system prompt
func WithChatPromptAddendum(s string) Option {
	return func(uc *UseCases) {
		uc.chatAddendum = s
	}
}

func WithLocale(l cis18.Locale) Option {
	return func(uc *UseCases) {
		uc.locale = l
	}
}

// WithBaseURL sets the public URL used for links in notifications
func WithBaseURL(url string) Option {
	return func(uc *UseCases) {
		uc.baseURL = url
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		leadWeights:    model.DefaultLeadScoreWeights(),
		defaultColumns: types.DefaultVisibleColumns(),
		preferenceTTL:  DefaultPreferenceCacheTTL,
		locale:         cis18.LocaleEN,
	}

	for _, opt := range opts {
		opt(uc)
	}

	n := &notifier{notifier: uc.notifier, baseURL: uc.baseURL}

	uc.Assessment = NewAssessmentUseCase(repo)
	uc.Lead = NewLeadUseCase(repo, uc.leadWeights, n)
	uc.Preference = NewPreferenceUseCase(repo, uc.defaultColumns, uc.preferenceTTL)
	uc.Organization = NewOrganizationUseCase(repo)
	uc.User = NewUserUseCase(repo)
	uc.Contact = NewContactUseCase(repo, n)
	uc.ServiceRequest = NewServiceRequestUseCase(repo, n)
	uc.Email = NewEmailUseCase(repo, uc.emailSender)
	uc.Chat = NewChatUseCase(repo, uc.llmClient, uc.Email, uc.chatAddendum, uc.locale)

	return uc
}

// Locale returns the locale of labels and prompts
func (uc *UseCases) Locale() cis18.Locale {
	return uc.locale
}

package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/usecase"
)

// mockNotifier records notifications; Notify runs asynchronously so tests wait on ch
type mockNotifier struct {
	mu  sync.Mutex
	got []*model.Notification
	ch  chan struct{}
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{ch: make(chan struct{}, 16)}
}

func (m *mockNotifier) Notify(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	m.got = append(m.got, n)
	m.mu.Unlock()
	m.ch <- struct{}{}
	return nil
}

func (m *mockNotifier) wait(t *testing.T) *model.Notification {
	t.Helper()
	select {
	case <-m.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("notification was not sent")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.got[len(m.got)-1]
}

// mockEmailSender records sent messages
type mockEmailSender struct {
	mu   sync.Mutex
	sent []*model.EmailMessage
	cfgs []*model.EmailProviderConfig
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, cfg *model.EmailProviderConfig, msg *model.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cfgs = append(m.cfgs, cfg)
	m.sent = append(m.sent, msg)
	return nil
}

func newOrg(t *testing.T, repo *memory.Memory, slug string) *model.Organization {
	t.Helper()
	org, err := repo.Organization().Create(context.Background(), &model.Organization{Name: "Org " + slug, Slug: slug})
	gt.NoError(t, err).Required()
	return org
}

func newUser(t *testing.T, uc *usecase.UseCases, email string, role types.UserRole, orgID types.OrganizationID) *model.User {
	t.Helper()
	u, err := uc.User.CreateUser(context.Background(), usecase.CreateUserInput{
		Email:          email,
		Name:           "User " + email,
		Password:       "correct horse battery",
		Role:           role,
		OrganizationID: orgID,
	})
	gt.NoError(t, err).Required()
	return u
}

func scoresOf(values map[int]int) cis18.Scores {
	var s cis18.Scores
	for n, v := range values {
		s.Set(n, cis18.Score(v))
	}
	return s
}

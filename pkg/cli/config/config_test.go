package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/cli/config"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cisboard.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "all sections",
			content: `
locale = "ja"

[dashboard]
default_columns = ["totalScore", "control1", "control18"]
preference_cache_ttl = "1m"

[chat]
prompt_addendum = "Answer in two sentences."

[lead_score]
phone = 5
[lead_score.company_size]
"1000+" = 60
[lead_score.security_maturity]
none = 40
`,
		},
		{
			name:    "empty file",
			content: ``,
		},
		{
			name:    "unsupported locale",
			content: `locale = "fr"`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown column",
			content: `
[dashboard]
default_columns = ["control19"]
`,
			wantErr: types.ErrInvalidColumn,
		},
		{
			name: "bad cache ttl",
			content: `
[dashboard]
preference_cache_ttl = "soon"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown company size bucket",
			content: `
[lead_score.company_size]
"huge" = 10
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "weight out of range",
			content: `
[lead_score]
message = 101
`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := config.LoadSettings(writeSettings(t, tt.content))
			if tt.wantErr != nil {
				gt.Value(t, errors.Is(err, tt.wantErr)).Equal(true)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, settings).NotNil()
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := config.LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Value(t, errors.Is(err, config.ErrConfigNotFound)).Equal(true)
}

func TestLeadScoreWeights(t *testing.T) {
	settings, err := config.LoadSettings(writeSettings(t, `
[lead_score]
phone = 0
[lead_score.company_size]
"1-10" = 15
`))
	gt.NoError(t, err).Required()

	w := settings.LeadScore.Weights()
	gt.Value(t, w.Phone).Equal(0)
	gt.Value(t, w.Message).Equal(10)
	gt.Value(t, w.CompanySize["1-10"]).Equal(15)
	gt.Value(t, w.CompanySize["1000+"]).Equal(50)
	gt.Value(t, w.SecurityMaturity["none"]).Equal(30)

	t.Run("defaults are not modified", func(t *testing.T) {
		gt.Value(t, model.DefaultLeadScoreWeights().CompanySize["1-10"]).Equal(10)
	})
}

func TestSettingsOptions(t *testing.T) {
	settings, err := config.LoadSettings(writeSettings(t, `
locale = "ja"
[dashboard]
default_columns = ["control2", "totalScore", "control2"]
`))
	gt.NoError(t, err).Required()

	uc := usecase.New(memory.New(), settings.Options()...)
	gt.Value(t, string(uc.Locale())).Equal("ja")
}

func TestAppConfigWithoutPath(t *testing.T) {
	var cfg config.AppConfig
	settings, err := cfg.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, settings.Locale).Equal("")
	gt.Value(t, len(settings.Options()) >= 2).Equal(true)
}

func TestLoggerConfigure(t *testing.T) {
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		closer, err := config.NewLoggerForTest("info", "json", path).Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("hello", "input", usecase.CreateUserInput{
			Email:    "alice@example.com",
			Password: "hunter2-hunter2",
		})
		closer()

		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains("hello")
		gt.String(t, string(data)).Contains("alice@example.com")
		gt.String(t, string(data)).NotContains("hunter2-hunter2")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "console", "stdout").Configure()
		gt.Value(t, errors.Is(err, config.ErrInvalidConfig)).Equal(true)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Value(t, errors.Is(err, config.ErrInvalidConfig)).Equal(true)
	})
}

func TestAuthConfigure(t *testing.T) {
	repo := memory.New()

	t.Run("no auth", func(t *testing.T) {
		auth, err := config.NewAuthForTest("", "dev@example.com", 0).Configure(repo)
		gt.NoError(t, err).Required()
		gt.Value(t, auth.IsNoAuthn()).Equal(true)
	})

	t.Run("password login", func(t *testing.T) {
		auth, err := config.NewAuthForTest(strings.Repeat("s", 32), "", time.Hour).Configure(repo)
		gt.NoError(t, err).Required()
		gt.Value(t, auth.IsNoAuthn()).Equal(false)
		gt.Value(t, auth.SessionTTL()).Equal(time.Hour)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := config.NewAuthForTest("", "", 0).Configure(repo)
		gt.Value(t, errors.Is(err, config.ErrMissingFlag)).Equal(true)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := config.NewAuthForTest("short", "", 0).Configure(repo)
		gt.Value(t, errors.Is(err, config.ErrWeakSessionSecret)).Equal(true)
	})
}

func TestRepositoryConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory, "", "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cisboard.db")
		repo, err := config.NewRepositoryForTest(config.BackendSQLite, "", path).Configure(ctx)
		gt.NoError(t, err).Required()
		defer func() { gt.NoError(t, repo.Close()) }()

		list, err := repo.Organization().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(0)
	})

	t.Run("firestore without project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendFirestore, "", "").Configure(ctx)
		gt.Value(t, errors.Is(err, config.ErrMissingFlag)).Equal(true)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("mysql", "", "").Configure(ctx)
		gt.Value(t, errors.Is(err, config.ErrInvalidBackend)).Equal(true)
	})
}

func TestSlackConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		n, err := config.NewSlackForTest("", "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, n == nil).Equal(true)
	})

	t.Run("token without channel", func(t *testing.T) {
		_, err := config.NewSlackForTest("xoxb-test", "").Configure(ctx)
		gt.Value(t, errors.Is(err, config.ErrMissingFlag)).Equal(true)
	})
}

func TestGeminiNotConfigured(t *testing.T) {
	client, err := config.NewGeminiForTest("", "us-central1").Configure(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, client == nil).Equal(true)
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig holds the --config flag pointing at the TOML settings file
type AppConfig struct {
	path string
}

// Flags returns CLI flags for the settings file
func (x *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML settings file",
			Sources:     cli.EnvVars("CISBOARD_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured settings path
func (x *AppConfig) Path() string {
	return x.path
}

// Configure loads the settings file. Without --config the built-in defaults apply.
func (x *AppConfig) Configure() (*Settings, error) {
	if x.path == "" {
		return &Settings{}, nil
	}
	return LoadSettings(x.path)
}

// Settings is the TOML settings file
type Settings struct {
	Locale    string            `toml:"locale"`
	Dashboard DashboardSettings `toml:"dashboard"`
	Chat      ChatSettings      `toml:"chat"`
	LeadScore LeadScoreSettings `toml:"lead_score"`
}

// DashboardSettings configures the table view
type DashboardSettings struct {
	DefaultColumns     []string `toml:"default_columns"`
	PreferenceCacheTTL string   `toml:"preference_cache_ttl"`
}

// ChatSettings configures the chatbot
type ChatSettings struct {
	PromptAddendum string `toml:"prompt_addendum"`
}

// LeadScoreSettings overrides the built-in lead scoring weights. Missing keys keep
// their defaults.
type LeadScoreSettings struct {
	CompanySize      map[string]int `toml:"company_size"`
	SecurityMaturity map[string]int `toml:"security_maturity"`
	Phone            *int           `toml:"phone"`
	Message          *int           `toml:"message"`
}

const maxLeadWeight = 100

func validateWeight(field, key string, v int) error {
	if v < 0 || v > maxLeadWeight {
		return goerr.Wrap(ErrInvalidConfig, "lead score weight must be between 0 and 100",
			goerr.V(FieldKey, field), goerr.V("key", key), goerr.V("value", v))
	}
	return nil
}

// Validate checks bucket names and weight ranges
func (x *LeadScoreSettings) Validate() error {
	for k, v := range x.CompanySize {
		if !slices.Contains(model.CompanySizes(), k) {
			return goerr.Wrap(ErrInvalidConfig, "unknown company size bucket", goerr.V("key", k))
		}
		if err := validateWeight("company_size", k, v); err != nil {
			return err
		}
	}
	for k, v := range x.SecurityMaturity {
		if !slices.Contains(model.SecurityMaturities(), k) {
			return goerr.Wrap(ErrInvalidConfig, "unknown security maturity bucket", goerr.V("key", k))
		}
		if err := validateWeight("security_maturity", k, v); err != nil {
			return err
		}
	}
	if x.Phone != nil {
		if err := validateWeight("phone", "", *x.Phone); err != nil {
			return err
		}
	}
	if x.Message != nil {
		if err := validateWeight("message", "", *x.Message); err != nil {
			return err
		}
	}
	return nil
}

// Weights returns the defaults with the configured overrides applied
func (x *LeadScoreSettings) Weights() model.LeadScoreWeights {
	w := model.DefaultLeadScoreWeights()
	for k, v := range x.CompanySize {
		w.CompanySize[k] = v
	}
	for k, v := range x.SecurityMaturity {
		w.SecurityMaturity[k] = v
	}
	if x.Phone != nil {
		w.Phone = *x.Phone
	}
	if x.Message != nil {
		w.Message = *x.Message
	}
	return w
}

// Validate checks if the Settings are valid
func (x *Settings) Validate() error {
	switch x.Locale {
	case "", string(cis18.LocaleEN), string(cis18.LocaleJA):
	default:
		return goerr.Wrap(ErrInvalidConfig, "unsupported locale", goerr.V("locale", x.Locale))
	}

	if _, err := x.defaultColumns(); err != nil {
		return err
	}
	if _, err := x.preferenceCacheTTL(); err != nil {
		return err
	}
	if err := x.LeadScore.Validate(); err != nil {
		return goerr.Wrap(err, "invalid lead_score")
	}
	return nil
}

func (x *Settings) defaultColumns() ([]types.ColumnID, error) {
	if len(x.Dashboard.DefaultColumns) == 0 {
		return nil, nil
	}
	cols := make([]types.ColumnID, 0, len(x.Dashboard.DefaultColumns))
	for _, s := range x.Dashboard.DefaultColumns {
		c, err := types.ParseColumnID(s)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid dashboard.default_columns")
		}
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	return cols, nil
}

func (x *Settings) preferenceCacheTTL() (time.Duration, error) {
	if x.Dashboard.PreferenceCacheTTL == "" {
		return usecase.DefaultPreferenceCacheTTL, nil
	}
	d, err := time.ParseDuration(x.Dashboard.PreferenceCacheTTL)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidConfig, "invalid dashboard.preference_cache_ttl",
			goerr.V("value", x.Dashboard.PreferenceCacheTTL), goerr.V("error", err.Error()))
	}
	if d < 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "dashboard.preference_cache_ttl must not be negative",
			goerr.V("value", x.Dashboard.PreferenceCacheTTL))
	}
	return d, nil
}

// Options converts the settings into use case options. Settings must be valid.
func (x *Settings) Options() []usecase.Option {
	opts := []usecase.Option{
		usecase.WithLocale(cis18.ParseLocale(x.Locale)),
		usecase.WithLeadScoreWeights(x.LeadScore.Weights()),
	}
	if cols, err := x.defaultColumns(); err == nil && len(cols) > 0 {
		opts = append(opts, usecase.WithDefaultColumns(cols))
	}
	if ttl, err := x.preferenceCacheTTL(); err == nil {
		opts = append(opts, usecase.WithPreferenceCacheTTL(ttl))
	}
	if x.Chat.PromptAddendum != "" {
		opts = append(opts, usecase.WithChatPromptAddendum(x.Chat.PromptAddendum))
	}
	return opts
}

// LoadSettings loads and validates the settings from a TOML file
func LoadSettings(path string) (*Settings, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "settings file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := settings.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &settings, nil
}

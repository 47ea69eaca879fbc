package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".lunchbot/"

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/email-system-prompt.md
var emailSystemPrompt string

//go:embed config/email-user-prompt.md
var emailUserPrompt string

// Settings represents the YAML configuration structure
type Settings struct {
	Sources  []string `yaml:"sources"`
	Holidays []string `yaml:"holidays"`
	City     string   `yaml:"city"`
	Agent    struct {
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"agent"`
	SMTP struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"smtp"`
}

// Config is the immutable per-run configuration: settings from YAML
// plus credentials gathered from the environment once at startup.
// Components never read ambient environment state themselves.
type Config struct {
	Settings    *Settings
	APIKey      string
	Sender      string
	Password    string
	Recipients  []string
	FeedbackURL string
	City        string
	AllDays     bool
	DryRun      bool
	StorePath   string
}

// LoadConfig builds the run configuration. Missing mandatory
// credentials are reported here, before any network activity.
func LoadConfig(apiKey string, allDays, dryRun bool, configPath string) (*Config, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key required: use --api-key flag or ANTHROPIC_API_KEY environment variable")
	}

	sender := os.Getenv("EMAIL_SENDER")
	if sender == "" {
		return nil, fmt.Errorf("EMAIL_SENDER environment variable is required")
	}
	password := os.Getenv("EMAIL_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("EMAIL_PASSWORD environment variable is required")
	}
	recipients := splitRecipients(os.Getenv("EMAIL_RECIPIENTS"))
	if len(recipients) == 0 {
		return nil, fmt.Errorf("EMAIL_RECIPIENTS environment variable is required (comma-separated)")
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if len(settings.Sources) == 0 {
		return nil, fmt.Errorf("no sources configured in settings")
	}

	city := os.Getenv("LUNCH_CITY")
	if city == "" {
		city = settings.City
	}

	return &Config{
		Settings:    settings,
		APIKey:      apiKey,
		Sender:      sender,
		Password:    password,
		Recipients:  recipients,
		FeedbackURL: os.Getenv("FEEDBACK_FORM_URL"),
		City:        city,
		AllDays:     allDays,
		DryRun:      dryRun,
		StorePath:   defaultStorePath(),
	}, nil
}

// HolidaySet returns the configured non-business days as a lookup set
func (c *Config) HolidaySet() map[string]bool {
	set := make(map[string]bool, len(c.Settings.Holidays))
	for _, d := range c.Settings.Holidays {
		set[d] = true
	}
	return set
}

func splitRecipients(raw string) []string {
	var out []string
	for _, r := range strings.Split(raw, ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

func defaultStorePath() string {
	return filepath.Join(xdg.CacheHome, "lunchbot", "menus.db")
}

// loadSettings loads settings from settingsPath. An explicit path must
// exist; the default path is created from the embedded defaults on
// first run.
func loadSettings(settingsPath string) (*Settings, error) {
	if settingsPath == "" {
		settingsPath = filepath.Join(defaultConfigDir, "settings.yaml")
		if err := ensureConfigExists(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	if settings.Agent.Model == "" {
		settings.Agent.Model = "claude-sonnet-4-20250514"
	}
	if settings.Agent.MaxTokens == 0 {
		settings.Agent.MaxTokens = 4000
	}
	if settings.SMTP.Host == "" {
		settings.SMTP.Host = "smtp.gmail.com"
	}
	if settings.SMTP.Port == 0 {
		settings.SMTP.Port = 587
	}

	return &settings, nil
}

// ensureConfigExists creates the config directory and writes the
// default settings.yaml if needed, so users have a file to customize.
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsFile := filepath.Join(defaultConfigDir, "settings.yaml")
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(settingsFile, []byte(defaultSettings), 0o644); err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Domain   string         `yaml:"domain"`
	Addr     string         `yaml:"addr"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

type MonitorConfig struct {
	IntervalSeconds      int `yaml:"interval"`       // seconds between checks
	TimeoutSeconds       int `yaml:"timeout"`        // per-request timeout, seconds
	SlowThresholdSeconds int `yaml:"slow_threshold"` // slow-response warning, seconds
	FailureThreshold     int `yaml:"failure_threshold"`
	RecoveryThreshold    int `yaml:"recovery_threshold"`

	// Parsed durations (filled after load)
	Interval      time.Duration `yaml:"-"`
	Timeout       time.Duration `yaml:"-"`
	SlowThreshold time.Duration `yaml:"-"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`

	// Parsed chat id (filled after load)
	ChatIDNum int64 `yaml:"-"`
}

// Enabled reports whether both credentials are present. Either one missing
// silently disables notifications; the monitor loop still runs.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
	File   string `yaml:"file"`   // optional sink alongside stdout
}

// Load reads the optional YAML file at path (empty path skips the file),
// applies environment overrides, then defaults, then validates. The DOMAIN
// value is the one hard requirement; everything else has a default.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validateAndNormalize(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DOMAIN"); v != "" {
		cfg.Domain = v
	}
	if v := os.Getenv("MONITOR_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"MONITOR_INTERVAL", &cfg.Monitor.IntervalSeconds},
		{"MONITOR_TIMEOUT", &cfg.Monitor.TimeoutSeconds},
		{"MONITOR_SLOW_THRESHOLD", &cfg.Monitor.SlowThresholdSeconds},
		{"MONITOR_FAILURE_THRESHOLD", &cfg.Monitor.FailureThreshold},
		{"MONITOR_RECOVERY_THRESHOLD", &cfg.Monitor.RecoveryThreshold},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", e.name, v, err)
		}
		*e.dst = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Monitor.IntervalSeconds <= 0 {
		cfg.Monitor.IntervalSeconds = 300
	}
	if cfg.Monitor.TimeoutSeconds <= 0 {
		cfg.Monitor.TimeoutSeconds = 15
	}
	if cfg.Monitor.SlowThresholdSeconds <= 0 {
		cfg.Monitor.SlowThresholdSeconds = 5
	}
	if cfg.Monitor.FailureThreshold <= 0 {
		cfg.Monitor.FailureThreshold = 2
	}
	if cfg.Monitor.RecoveryThreshold <= 0 {
		cfg.Monitor.RecoveryThreshold = 2
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Log.Format) == "" {
		cfg.Log.Format = "console"
	}
}

func validateAndNormalize(cfg *Config) error {
	cfg.Domain = strings.TrimSpace(cfg.Domain)
	if cfg.Domain == "" {
		return errors.New("config: DOMAIN is required")
	}
	if strings.Contains(cfg.Domain, "://") || strings.Contains(cfg.Domain, "/") {
		return fmt.Errorf("config: domain %q must be a bare host, not a URL", cfg.Domain)
	}

	cfg.Monitor.Interval = time.Duration(cfg.Monitor.IntervalSeconds) * time.Second
	cfg.Monitor.Timeout = time.Duration(cfg.Monitor.TimeoutSeconds) * time.Second
	cfg.Monitor.SlowThreshold = time.Duration(cfg.Monitor.SlowThresholdSeconds) * time.Second

	cfg.Telegram.BotToken = strings.TrimSpace(cfg.Telegram.BotToken)
	cfg.Telegram.ChatID = strings.TrimSpace(cfg.Telegram.ChatID)
	if cfg.Telegram.ChatID != "" {
		id, err := strconv.ParseInt(cfg.Telegram.ChatID, 10, 64)
		if err != nil {
			return fmt.Errorf("config: invalid TELEGRAM_CHAT_ID %q: %w", cfg.Telegram.ChatID, err)
		}
		cfg.Telegram.ChatIDNum = id
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: invalid log format %q (use console or json)", cfg.Log.Format)
	}

	return nil
}

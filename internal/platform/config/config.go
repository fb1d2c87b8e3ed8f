package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBaseURL       = "http://localhost:8787"
	defaultHTTPTimeout      = 15 * time.Second
	defaultReminderInterval = 60 * time.Second
	defaultMetricsAddr      = "127.0.0.1:9464"
)

type Config struct {
	DataDir          string
	DBPath           string
	APIBaseURL       string
	HTTPTimeout      time.Duration
	LogMode          string
	ReminderInterval time.Duration
	MetricsAddr      string
	Location         *time.Location
	// Notifier is "desktop" or "log".
	Notifier   string
	JournalDir string
}

// fileConfig mirrors <data-dir>/config.yaml. Zero values keep defaults.
type fileConfig struct {
	APIBaseURL       string `yaml:"api_base_url"`
	HTTPTimeout      string `yaml:"http_timeout"`
	LogMode          string `yaml:"log_mode"`
	ReminderInterval string `yaml:"reminder_interval"`
	MetricsAddr      string `yaml:"metrics_addr"`
	Timezone         string `yaml:"timezone"`
	Notifier         string `yaml:"notifier"`
	JournalDir       string `yaml:"journal_dir"`
}

// New resolves configuration for dataDir: defaults, then config.yaml, then
// CRADLE_* environment variables (a .env file in dataDir is loaded first and
// never overrides variables already set).
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		DataDir:          dataDir,
		DBPath:           filepath.Join(dataDir, "cradle.db"),
		APIBaseURL:       defaultAPIBaseURL,
		HTTPTimeout:      defaultHTTPTimeout,
		LogMode:          "cli",
		ReminderInterval: defaultReminderInterval,
		MetricsAddr:      defaultMetricsAddr,
		Location:         time.Local,
		Notifier:         "desktop",
		JournalDir:       filepath.Join(dataDir, "journal"),
	}

	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	fc, err := readFile(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		return Config{}, err
	}
	fc.APIBaseURL = getenv("CRADLE_API_BASE_URL", fc.APIBaseURL)
	fc.HTTPTimeout = getenv("CRADLE_HTTP_TIMEOUT", fc.HTTPTimeout)
	fc.LogMode = getenv("CRADLE_LOG_MODE", fc.LogMode)
	fc.ReminderInterval = getenv("CRADLE_REMINDER_INTERVAL", fc.ReminderInterval)
	fc.MetricsAddr = getenv("CRADLE_METRICS_ADDR", fc.MetricsAddr)
	fc.Timezone = getenv("CRADLE_TIMEZONE", fc.Timezone)
	fc.Notifier = getenv("CRADLE_NOTIFIER", fc.Notifier)
	fc.JournalDir = getenv("CRADLE_JOURNAL_DIR", fc.JournalDir)

	if err := cfg.apply(fc); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	fc := fileConfig{}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("decode config: %w", err)
	}
	return fc, nil
}

func (c *Config) apply(fc fileConfig) error {
	if v := strings.TrimSpace(fc.APIBaseURL); v != "" {
		c.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(fc.LogMode); v != "" {
		c.LogMode = v
	}
	if v := strings.TrimSpace(fc.MetricsAddr); v != "" {
		c.MetricsAddr = v
	}
	switch v := strings.ToLower(strings.TrimSpace(fc.Notifier)); v {
	case "":
	case "desktop", "log":
		c.Notifier = v
	default:
		return fmt.Errorf("invalid notifier %q", fc.Notifier)
	}
	if v := strings.TrimSpace(fc.JournalDir); v != "" {
		c.JournalDir = v
	}
	var err error
	if c.HTTPTimeout, err = duration("http_timeout", fc.HTTPTimeout, c.HTTPTimeout); err != nil {
		return err
	}
	if c.ReminderInterval, err = duration("reminder_interval", fc.ReminderInterval, c.ReminderInterval); err != nil {
		return err
	}
	if tz := strings.TrimSpace(fc.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", tz, err)
		}
		c.Location = loc
	}
	return nil
}

func duration(name, raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		raw = strconv.Itoa(secs) + "s"
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return d, nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// DefaultDataDir is ~/.cradle, or ./.cradle when the home dir is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".cradle"
	}
	return filepath.Join(home, ".cradle")
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/claude/freetimer/internal/models"
)

type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	Server        ServerConfig        `yaml:"server"`
	Timer         TimerConfig         `yaml:"timer"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Log           LogConfig           `yaml:"log"`
	Locale        string              `yaml:"locale"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TimerConfig struct {
	Category       string        `yaml:"category"`
	Difficulty     string        `yaml:"difficulty"`
	DriftThreshold time.Duration `yaml:"drift_threshold"`
}

// Selection returns the configured default category and difficulty.
// Load has already validated both values.
func (t TimerConfig) Selection() models.Selection {
	c, _ := models.ParseCategory(t.Category)
	d, _ := models.ParseDifficulty(t.Difficulty)
	return models.Selection{Category: c, Difficulty: d}
}

type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
	Bell    bool `yaml:"bell"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dataDir := DataDir()
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(dataDir, "workouts.db")},
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8787},
		Timer: TimerConfig{
			Category:       string(models.CategoryCardio),
			Difficulty:     string(models.DifficultyMedium),
			DriftThreshold: 3 * time.Second,
		},
		Notifications: NotificationsConfig{Enabled: true, Bell: true},
		Log:           LogConfig{Level: "info", File: filepath.Join(dataDir, "freetimer.log")},
		Locale:        string(models.LocaleEN),
	}
}

// DefaultPath is $XDG_CONFIG_HOME/freetimer/config.yaml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "freetimer", "config.yaml")
}

// DataDir is $XDG_DATA_HOME/freetimer, falling back to ~/.local/share/freetimer.
func DataDir() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "freetimer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "freetimer")
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
// Env vars use the prefix FREETIMER_:
//
//	FREETIMER_DB_PATH,
//	FREETIMER_SERVER_HOST, FREETIMER_SERVER_PORT, FREETIMER_API_KEY,
//	FREETIMER_CATEGORY, FREETIMER_DIFFICULTY, FREETIMER_DRIFT_THRESHOLD,
//	FREETIMER_NOTIFICATIONS, FREETIMER_LOG_LEVEL, FREETIMER_LOG_FILE,
//	FREETIMER_LOCALE
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("FREETIMER_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FREETIMER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FREETIMER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FREETIMER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("FREETIMER_CATEGORY"); v != "" {
		cfg.Timer.Category = v
	}
	if v := os.Getenv("FREETIMER_DIFFICULTY"); v != "" {
		cfg.Timer.Difficulty = v
	}
	if v := os.Getenv("FREETIMER_DRIFT_THRESHOLD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FREETIMER_DRIFT_THRESHOLD: %w", err)
		}
		cfg.Timer.DriftThreshold = d
	}
	if v := os.Getenv("FREETIMER_NOTIFICATIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FREETIMER_NOTIFICATIONS: %w", err)
		}
		cfg.Notifications.Enabled = b
	}
	if v := os.Getenv("FREETIMER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FREETIMER_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("FREETIMER_LOCALE"); v != "" {
		cfg.Locale = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := models.ParseCategory(c.Timer.Category); err != nil {
		return fmt.Errorf("timer.category: %w", err)
	}
	if _, err := models.ParseDifficulty(c.Timer.Difficulty); err != nil {
		return fmt.Errorf("timer.difficulty: %w", err)
	}
	if c.Timer.DriftThreshold < time.Second {
		return fmt.Errorf("timer.drift_threshold must be at least 1s")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug|info|warn|error", c.Log.Level)
	}
	switch models.Locale(c.Locale) {
	case models.LocaleEN, models.LocaleRU:
	default:
		return fmt.Errorf("locale %q is not one of en|ru", c.Locale)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

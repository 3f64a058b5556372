// Package config loads runtime configuration from ~/.studymate/config.yaml
// and STUDYMATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alexanderramin/studymate/internal/backend"
)

// EnvPrefix namespaces environment overrides, e.g. STUDYMATE_BACKEND_URL.
const EnvPrefix = "STUDYMATE"

// Config is the full runtime configuration.
type Config struct {
	DBPath  string        `yaml:"db_path" mapstructure:"db_path"`
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Timer   TimerConfig   `yaml:"timer" mapstructure:"timer"`
	Media   MediaConfig   `yaml:"media" mapstructure:"media"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// BackendConfig locates the flashcard and audio backend.
type BackendConfig struct {
	URL               string `yaml:"url" mapstructure:"url"`
	TimeoutMs         int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	GenerateTimeoutMs int    `yaml:"generate_timeout_ms" mapstructure:"generate_timeout_ms"`
	LogCalls          bool   `yaml:"log_calls" mapstructure:"log_calls"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

type TimerConfig struct {
	TickIntervalMs int `yaml:"tick_interval_ms" mapstructure:"tick_interval_ms"`
}

// MediaConfig picks the speech and playback programs. "auto" probes PATH,
// "none" disables the capability, "print" (speech only) writes utterances to
// the terminal, anything else names a program. AssetsDir holds the ambient
// tracks the built-in vibes refer to by file name.
type MediaConfig struct {
	Speaker   string `yaml:"speaker" mapstructure:"speaker"`
	Player    string `yaml:"player" mapstructure:"player"`
	AssetsDir string `yaml:"assets_dir" mapstructure:"assets_dir"`
}

// LogConfig controls the zerolog output. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
}

// Dir returns ~/.studymate, or .studymate when there is no home directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studymate"
	}
	return filepath.Join(home, ".studymate")
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	b := backend.DefaultConfig()
	return Config{
		DBPath: filepath.Join(Dir(), "studymate.db"),
		Backend: BackendConfig{
			URL:               b.BaseURL,
			TimeoutMs:         int(b.Timeout / time.Millisecond),
			GenerateTimeoutMs: int(b.GenerateTimeout / time.Millisecond),
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Timer:  TimerConfig{TickIntervalMs: 1000},
		Media:  MediaConfig{Speaker: "auto", Player: "auto", AssetsDir: filepath.Join(Dir(), "sounds")},
		Log:    LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Load reads path (when it exists) and then environment overrides on top of
// the defaults. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("checking config %s: %w", path, err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("backend.url", cfg.Backend.URL)
	v.SetDefault("backend.timeout_ms", cfg.Backend.TimeoutMs)
	v.SetDefault("backend.generate_timeout_ms", cfg.Backend.GenerateTimeoutMs)
	v.SetDefault("backend.log_calls", cfg.Backend.LogCalls)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("timer.tick_interval_ms", cfg.Timer.TickIntervalMs)
	v.SetDefault("media.speaker", cfg.Media.Speaker)
	v.SetDefault("media.player", cfg.Media.Player)
	v.SetDefault("media.assets_dir", cfg.Media.AssetsDir)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return errors.New("config: backend.url is required")
	}
	if c.Backend.TimeoutMs <= 0 || c.Backend.GenerateTimeoutMs <= 0 {
		return errors.New("config: backend timeouts must be positive")
	}
	if c.Timer.TickIntervalMs <= 0 {
		return errors.New("config: timer.tick_interval_ms must be positive")
	}
	return nil
}

// BackendClientConfig converts to the backend package's settings.
func (c Config) BackendClientConfig() backend.Config {
	return backend.Config{
		BaseURL:         strings.TrimRight(c.Backend.URL, "/"),
		Timeout:         time.Duration(c.Backend.TimeoutMs) * time.Millisecond,
		GenerateTimeout: time.Duration(c.Backend.GenerateTimeoutMs) * time.Millisecond,
		LogCalls:        c.Backend.LogCalls,
	}
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Timer.TickIntervalMs) * time.Millisecond
}

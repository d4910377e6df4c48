package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultConfigPath  = "config/config.yaml"
	defaultBaseURL     = "https://ridenext-12.onrender.com"
	defaultTimeout     = 1000 * time.Second
	defaultStubAddr    = ":4001"
	defaultRedisPrefix = "ridenext:session"

	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	API struct {
		BaseURL         string `yaml:"base_url"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		StrictResponses bool   `yaml:"strict_responses"`
	} `yaml:"api"`
	Session struct {
		Backend string `yaml:"backend"`
		File    string `yaml:"file"`
	} `yaml:"session"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Key      string `yaml:"key"`
	} `yaml:"redis"`
	Stub struct {
		Addr       string `yaml:"addr"`
		SigningKey string `yaml:"signing_key"`
	} `yaml:"stub"`
	LogLevel string `yaml:"log_level"`
}

// Timeout is the fixed per-request timeout of the API client.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// SlogLevel maps LogLevel onto slog levels; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
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

// Default returns the configuration used when no file or environment is present.
func Default() Config {
	var cfg Config
	cfg.API.BaseURL = defaultBaseURL
	cfg.API.TimeoutSeconds = int(defaultTimeout / time.Second)
	cfg.Session.Backend = SessionBackendFile
	cfg.Session.File = defaultSessionFile()
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.Key = defaultRedisPrefix
	cfg.Stub.Addr = defaultStubAddr
	cfg.Stub.SigningKey = "ridenext-dev-signing-key"
	cfg.LogLevel = "info"
	return cfg
}

// LoadConfig reads the optional YAML file named by RIDENEXT_CONFIG, applies environment
// overrides and validates the result.
func LoadConfig() (Config, error) {
	cfg := Default()

	path := os.Getenv("RIDENEXT_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("RIDENEXT_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, err := readIntEnv("RIDENEXT_TIMEOUT_SECONDS"); err != nil {
		return fmt.Errorf("parse RIDENEXT_TIMEOUT_SECONDS: %w", err)
	} else if v != nil {
		cfg.API.TimeoutSeconds = *v
	}
	if v := os.Getenv("STRICT_RESPONSES"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse STRICT_RESPONSES: %w", err)
		}
		cfg.API.StrictResponses = strict
	}
	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("SESSION_FILE"); v != "" {
		cfg.Session.File = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		cfg.Redis.DB = *v
	}
	if v := os.Getenv("STUB_ADDR"); v != "" {
		cfg.Stub.Addr = v
	}
	if v := os.Getenv("STUB_SIGNING_KEY"); v != "" {
		cfg.Stub.SigningKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate checks the values the client cannot run without.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url must be http or https, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return errors.New("api timeout must not be negative")
	}
	switch c.Session.Backend {
	case SessionBackendFile:
		if c.Session.File == "" {
			return errors.New("session file is required for the file backend")
		}
	case SessionBackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required for the redis backend")
		}
	case SessionBackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".ridenext", "session.yaml")
	}
	return filepath.Join(home, ".ridenext", "session.yaml")
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

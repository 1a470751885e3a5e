package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port               string `json:"port" yaml:"port" validate:"required,numeric"`
	RequestTimeoutSec  int    `json:"request_timeout_sec" yaml:"request_timeout_sec" validate:"min=1"`
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" validate:"min=1"`
	TLSCertFile        string `json:"tls_cert_file" yaml:"tls_cert_file" validate:"required_with=TLSKeyFile"`
	TLSKeyFile         string `json:"tls_key_file" yaml:"tls_key_file" validate:"required_with=TLSCertFile"`
}

// TLSEnabled reports whether both halves of a key pair are configured.
func (s Server) TLSEnabled() bool { return s.TLSCertFile != "" && s.TLSKeyFile != "" }

type AlphaVantage struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,url"`
}

type Log struct {
	Level       string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `json:"development" yaml:"development"`
}

type Metrics struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace" validate:"required_if=Enabled true"`
}

type Config struct {
	Server       Server       `json:"server" yaml:"server"`
	AlphaVantage AlphaVantage `json:"alphavantage" yaml:"alphavantage"`
	Log          Log          `json:"log" yaml:"log"`
	Metrics      Metrics      `json:"metrics" yaml:"metrics"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10, ShutdownTimeoutSec: 5},
		AlphaVantage: AlphaVantage{
			BaseURL: "https://www.alphavantage.co",
		},
		Log:     Log{Level: "info"},
		Metrics: Metrics{Enabled: true, Namespace: "stockrelay"},
	}
}

var validate = validator.New()

// Load reads config from path (JSON, or YAML for .yaml/.yml). If path is empty
// it falls back to config.json in the working directory, then to defaults.
// Environment variables override select fields, the API key in particular.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := unmarshal(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.AlphaVantage.BaseURL = strings.TrimRight(cfg.AlphaVantage.BaseURL, "/")
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func unmarshal(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.AlphaVantage.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		x, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT_SEC: %w", err)
		}
		cfg.Server.RequestTimeoutSec = x
	}
	if v := os.Getenv("TLS_CERT_FILE"); v != "" {
		cfg.Server.TLSCertFile = v
	}
	if v := os.Getenv("TLS_KEY_FILE"); v != "" {
		cfg.Server.TLSKeyFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v, ok := parseBool(os.Getenv("LOG_DEVELOPMENT")); ok {
		cfg.Log.Development = v
	}
	if v, ok := parseBool(os.Getenv("METRICS_ENABLED")); ok {
		cfg.Metrics.Enabled = v
	}
	return nil
}

func parseBool(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}

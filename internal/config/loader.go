package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"genbridge/internal/model"
)

// Defaults filled in by ApplyDefaults.
const (
	DefaultAddr         = ":8080"
	DefaultBundleDir    = "models"
	DefaultModelName    = "chat_model"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultMaxBodyBytes = int64(1 << 20)
	DefaultKafkaTopic   = "genbridge-events"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
// Durations are in milliseconds; a negative delay disables it.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr" envconfig:"GENBRIDGE_ADDR"`
	BundleDir string `json:"bundle_dir" yaml:"bundle_dir" toml:"bundle_dir" envconfig:"GENBRIDGE_BUNDLE_DIR"`
	ModelName string `json:"model_name" yaml:"model_name" toml:"model_name" envconfig:"GENBRIDGE_MODEL_NAME"`
	ModelPath string `json:"model_path" yaml:"model_path" toml:"model_path" envconfig:"GENBRIDGE_MODEL_PATH"`
	Backend   string `json:"backend" yaml:"backend" toml:"backend" envconfig:"GENBRIDGE_BACKEND"`

	Workers              int `json:"workers" yaml:"workers" toml:"workers" envconfig:"GENBRIDGE_WORKERS"`
	FallbackDelayMS      int `json:"fallback_delay_ms" yaml:"fallback_delay_ms" toml:"fallback_delay_ms" envconfig:"GENBRIDGE_FALLBACK_DELAY_MS"`
	ErrorFallbackDelayMS int `json:"error_fallback_delay_ms" yaml:"error_fallback_delay_ms" toml:"error_fallback_delay_ms" envconfig:"GENBRIDGE_ERROR_FALLBACK_DELAY_MS"`
	DemoLoadDelayMS      int `json:"demo_load_delay_ms" yaml:"demo_load_delay_ms" toml:"demo_load_delay_ms" envconfig:"GENBRIDGE_DEMO_LOAD_DELAY_MS"`
	DemoInferDelayMS     int `json:"demo_infer_delay_ms" yaml:"demo_infer_delay_ms" toml:"demo_infer_delay_ms" envconfig:"GENBRIDGE_DEMO_INFER_DELAY_MS"`

	LlamaCtx     int    `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx" envconfig:"GENBRIDGE_LLAMA_CTX"`
	LlamaThreads int    `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads" envconfig:"GENBRIDGE_LLAMA_THREADS"`
	LlamaPredict int    `json:"llama_predict" yaml:"llama_predict" toml:"llama_predict" envconfig:"GENBRIDGE_LLAMA_PREDICT"`
	ORTLibrary   string `json:"ort_library" yaml:"ort_library" toml:"ort_library" envconfig:"GENBRIDGE_ORT_LIBRARY"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" envconfig:"GENBRIDGE_LOG_LEVEL"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" envconfig:"GENBRIDGE_LOG_FORMAT"`

	MaxBodyBytes   int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" envconfig:"GENBRIDGE_MAX_BODY_BYTES"`
	RateLimitRPS   float64  `json:"rate_limit_rps" yaml:"rate_limit_rps" toml:"rate_limit_rps" envconfig:"GENBRIDGE_RATE_LIMIT_RPS"`
	RateLimitBurst int      `json:"rate_limit_burst" yaml:"rate_limit_burst" toml:"rate_limit_burst" envconfig:"GENBRIDGE_RATE_LIMIT_BURST"`
	CORSEnabled    bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled" envconfig:"GENBRIDGE_CORS_ENABLED"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" envconfig:"GENBRIDGE_CORS_ORIGINS"`

	KafkaBrokers []string `json:"kafka_brokers" yaml:"kafka_brokers" toml:"kafka_brokers" envconfig:"GENBRIDGE_KAFKA_BROKERS"`
	KafkaTopic   string   `json:"kafka_topic" yaml:"kafka_topic" toml:"kafka_topic" envconfig:"GENBRIDGE_KAFKA_TOPIC"`

	LoadOnStart bool `json:"load_on_start" yaml:"load_on_start" toml:"load_on_start" envconfig:"GENBRIDGE_LOAD_ON_START"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any GENBRIDGE_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// ApplyDefaults fills unspecified fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.BundleDir == "" {
		cfg.BundleDir = DefaultBundleDir
	}
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModelName
	}
	if cfg.Backend == "" {
		cfg.Backend = model.BackendAuto
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = int(cfg.RateLimitRPS)
		if cfg.RateLimitBurst < 1 {
			cfg.RateLimitBurst = 1
		}
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = DefaultKafkaTopic
	}
}

// Validate rejects settings that cannot be served.
func (c Config) Validate() error {
	switch c.Backend {
	case model.BackendAuto, model.BackendDemo:
	case model.BackendONNX, model.BackendLlama:
		if !model.Available(c.Backend) {
			return fmt.Errorf("backend %q is not built into this binary (rebuild with -tags=%s)", c.Backend, c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must be >= 0, got %v", c.RateLimitRPS)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Resolve loads path (if non-empty) and applies environment overrides and
// defaults. It does not validate: callers layer their own overrides (CLI
// flags) on top and call Validate once.
func Resolve(path string) (Config, error) {
	var cfg Config
	if path != "" {
		c, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}

// OpenOptions maps backend settings to model.OpenOptions.
func (c Config) OpenOptions() model.OpenOptions {
	return model.OpenOptions{
		Backend:        c.Backend,
		Path:           c.ModelPath,
		ORTLibrary:     c.ORTLibrary,
		LlamaCtx:       c.LlamaCtx,
		LlamaThreads:   c.LlamaThreads,
		LlamaPredict:   c.LlamaPredict,
		DemoLoadDelay:  Millis(c.DemoLoadDelayMS),
		DemoInferDelay: Millis(c.DemoInferDelayMS),
	}
}

// Millis converts a millisecond setting, keeping the sign so negative values
// still mean "disabled".
func Millis(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

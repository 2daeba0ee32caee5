package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Model   ModelConfig
	Scraper ScraperConfig
	Logging LogConfig
	Metrics MetricsConfig
}

// ModelConfig holds chat model configuration. The defaults target Ollama's
// OpenAI-compatible endpoint; point BaseURL at api.openai.com/v1 for hosted
// models.
type ModelConfig struct {
	Name    string        `envconfig:"MODEL" default:"webscraper" yaml:"name"`
	BaseURL string        `envconfig:"MODEL_BASE_URL" default:"http://localhost:11434/v1" yaml:"base_url"`
	APIKey  string        `envconfig:"MODEL_API_KEY" default:"ollama" yaml:"api_key"`
	Timeout time.Duration `envconfig:"MODEL_TIMEOUT" default:"120s" yaml:"timeout"`
}

// ScraperConfig holds scraping defaults.
type ScraperConfig struct {
	OutputDir   string   `envconfig:"OUTPUT_DIR" default:"downloads" yaml:"output_dir"`
	SearchTerms []string `envconfig:"SEARCH_TERMS" default:"price,cost,patients,transparecny,estimates" yaml:"search_terms"`
	FileTypes   []string `envconfig:"FILE_TYPES" default:".pdf,.xlsx,csv" yaml:"file_types"`

	// MaxDepth is accepted for compatibility with existing configs but no
	// traversal consults it; scraping is single-level per URL.
	MaxDepth int `envconfig:"MAX_DEPTH" default:"5" yaml:"max_depth"`

	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s" yaml:"fetch_timeout"`
	UserAgent    string        `envconfig:"USER_AGENT" default:"pagescout/1.0" yaml:"user_agent"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// MetricsConfig holds the optional prometheus listener configuration.
type MetricsConfig struct {
	Addr    string `envconfig:"METRICS_ADDR" default:"" yaml:"addr"`
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"false" yaml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Name:    "webscraper",
			BaseURL: "http://localhost:11434/v1",
			APIKey:  "ollama",
			Timeout: 120 * time.Second,
		},
		Scraper: ScraperConfig{
			OutputDir:    "downloads",
			SearchTerms:  []string{"price", "cost", "patients", "transparecny", "estimates"},
			FileTypes:    []string{".pdf", ".xlsx", "csv"},
			MaxDepth:     5,
			FetchTimeout: 30 * time.Second,
			UserAgent:    "pagescout/1.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Metrics: MetricsConfig{},
	}
}

// fileConfig mirrors Config for YAML decoding. The section pointers are
// aimed at the live Config before decoding, so only fields present in the
// file override the environment values.
type fileConfig struct {
	Model   *ModelConfig   `yaml:"model"`
	Scraper *ScraperConfig `yaml:"scraper"`
	Logging *LogConfig     `yaml:"logging"`
	Metrics *MetricsConfig `yaml:"metrics"`
}

// ApplyFile overlays a YAML configuration file onto cfg, field by field. A
// field or section absent from the file leaves the corresponding
// environment-derived value untouched.
func ApplyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	fc := fileConfig{
		Model:   &cfg.Model,
		Scraper: &cfg.Scraper,
		Logging: &cfg.Logging,
		Metrics: &cfg.Metrics,
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

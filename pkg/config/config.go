package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:bookmarker.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=Classification provider configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Page content extraction configuration"`

	Placement PlacementConfig `yaml:"placement" json:"placement" jsonschema:"description=Folder placement configuration"`

	History struct {
		Limit int `yaml:"limit" json:"limit" jsonschema:"default=100,minimum=1,description=Maximum number of history entries kept"`
	} `yaml:"history" json:"history" jsonschema:"description=History configuration"`
}

// LLMConfig holds provider call settings shared by all backends
type LLMConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Per-attempt request timeout"`
	Retries      int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Total attempts per classification"`
	RetryDelay   time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=1s,description=Base delay of linear backoff"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=256,description=Maximum tokens in response (anthropic only)"`
	Endpoints    Endpoints     `yaml:"endpoints" json:"endpoints" jsonschema:"description=Default endpoints of the providers"`
	DefaultModel string        `yaml:"default_model" json:"default_model" jsonschema:"default=deepseek-chat,description=Model used by the shared default proxy"`
}

// Endpoints holds base URLs of the providers, empty values use built-in defaults
type Endpoints struct {
	Proxy     string `yaml:"proxy" json:"proxy" jsonschema:"description=Shared routing proxy for the default provider"`
	DeepSeek  string `yaml:"deepseek" json:"deepseek" jsonschema:"description=DeepSeek API endpoint"`
	OpenAI    string `yaml:"openai" json:"openai" jsonschema:"description=OpenAI API endpoint"`
	Gemini    string `yaml:"gemini" json:"gemini" jsonschema:"description=Gemini API base URL"`
	Ollama    string `yaml:"ollama" json:"ollama" jsonschema:"description=Ollama host"`
	Doubao    string `yaml:"doubao" json:"doubao" jsonschema:"description=Doubao (Volcengine Ark) API endpoint"`
	Anthropic string `yaml:"anthropic" json:"anthropic" jsonschema:"description=Anthropic API base URL"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=5s,description=Extraction deadline per page"`
	MaxBodyChars int           `yaml:"max_body_chars" json:"max_body_chars" jsonschema:"default=500,description=Body excerpt limit in characters"`
	MaxPageSize  int64         `yaml:"max_page_size" json:"max_page_size" jsonschema:"default=2097152,description=Maximum page size to read in bytes"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Bookmarker/1.0),description=User agent for HTTP requests"`
}

// PlacementConfig holds folder placement settings
type PlacementConfig struct {
	ContainerID     string        `yaml:"container_id" json:"container_id" jsonschema:"default=1,description=ID of the top-level folder holding categories"`
	SelfCreatedTTL  time.Duration `yaml:"self_created_ttl" json:"self_created_ttl" jsonschema:"default=10s,description=Cooldown for ignoring events of bookmarks created by placement"`
	CleanupSchedule string        `yaml:"cleanup_schedule" json:"cleanup_schedule" jsonschema:"default=@every 1m,description=Cron schedule of expired marks cleanup"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	SetDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema validation is supplementary, don't fail on it
	if err := VerifyAgainstSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

// SetDefaults fills zero values with defaults
func SetDefaults(cfg *Config) {
	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:bookmarker.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for LLM
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.Retries == 0 {
		cfg.LLM.Retries = 3
	}
	if cfg.LLM.RetryDelay == 0 {
		cfg.LLM.RetryDelay = time.Second
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 256
	}
	if cfg.LLM.DefaultModel == "" {
		cfg.LLM.DefaultModel = "deepseek-chat"
	}

	// set defaults for extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 5 * time.Second
	}
	if cfg.Extraction.MaxBodyChars == 0 {
		cfg.Extraction.MaxBodyChars = 500
	}
	if cfg.Extraction.MaxPageSize == 0 {
		cfg.Extraction.MaxPageSize = 2 * 1024 * 1024
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "Mozilla/5.0 (compatible; Bookmarker/1.0)"
	}

	// set defaults for placement
	if cfg.Placement.ContainerID == "" {
		cfg.Placement.ContainerID = "1"
	}
	if cfg.Placement.SelfCreatedTTL == 0 {
		cfg.Placement.SelfCreatedTTL = 10 * time.Second
	}
	if cfg.Placement.CleanupSchedule == "" {
		cfg.Placement.CleanupSchedule = "@every 1m"
	}

	if cfg.History.Limit == 0 {
		cfg.History.Limit = 100
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.LLM.Retries < 1 {
		return fmt.Errorf("llm.retries must be at least 1")
	}
	if cfg.LLM.Timeout < 100*time.Millisecond {
		return fmt.Errorf("llm.timeout must be at least 100ms")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.Extraction.MaxBodyChars < 0 {
		return fmt.Errorf("extraction.max_body_chars must be non-negative")
	}
	if cfg.History.Limit < 1 {
		return fmt.Errorf("history.limit must be at least 1")
	}
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

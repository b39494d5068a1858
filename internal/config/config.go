package config

import (
	"time"

	"golang-shopify-warroom/pkg/config"
)

// Shopify holds settings for the storefront catalog fetcher.
type Shopify struct {
	MaxProducts    int           `mapstructure:"max_products"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// Worker holds settings for the analysis cycle worker.
type Worker struct {
	CycleSchedule string        `mapstructure:"cycle_schedule"`
	TargetPause   time.Duration `mapstructure:"target_pause"`
	Language      string        `mapstructure:"language"`
}

// AI selects the reasoning provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Groq holds the configuration for the Groq chat-completion API.
type Groq struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	Model               string        `mapstructure:"model"`
	Temperature         float64       `mapstructure:"temperature"`
	MaxTokens           int           `mapstructure:"max_tokens"`
	MaxAttempts         int           `mapstructure:"max_attempts"`
	RetryBackoff        time.Duration `mapstructure:"retry_backoff"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Temperature         float64       `mapstructure:"temperature"`
	MaxTokens           int           `mapstructure:"max_tokens"`
	MaxAttempts         int           `mapstructure:"max_attempts"`
	RetryBackoff        time.Duration `mapstructure:"retry_backoff"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// OpenRouter holds the configuration for the OpenRouter API.
type OpenRouter struct {
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the war room services.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Shopify    Shopify         `mapstructure:"shopify"`
	Worker     Worker          `mapstructure:"worker"`
	AI         AI              `mapstructure:"ai"`
	Groq       Groq            `mapstructure:"groq"`
	Gemini     Gemini          `mapstructure:"gemini"`
	OpenRouter OpenRouter      `mapstructure:"openrouter"`
	Telegram   Telegram        `mapstructure:"telegram"`
}

// Load loads the configuration from the given path and fills in defaults
// for settings the file leaves out.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Shopify.MaxProducts == 0 {
		cfg.Shopify.MaxProducts = 10
	}
	if cfg.Shopify.RequestTimeout == 0 {
		cfg.Shopify.RequestTimeout = 15 * time.Second
	}
	if cfg.Worker.CycleSchedule == "" {
		cfg.Worker.CycleSchedule = "@hourly"
	}
	if cfg.Worker.TargetPause == 0 {
		cfg.Worker.TargetPause = 3 * time.Second
	}
	if cfg.Worker.Language == "" {
		cfg.Worker.Language = "en"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "groq"
	}
	if cfg.Groq.BaseURL == "" {
		cfg.Groq.BaseURL = "https://api.groq.com/openai/v1/chat/completions"
	}
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Groq.Temperature == 0 {
		cfg.Groq.Temperature = 0.1
	}
	if cfg.Groq.MaxTokens == 0 {
		cfg.Groq.MaxTokens = 1200
	}
	if cfg.Groq.MaxAttempts == 0 {
		cfg.Groq.MaxAttempts = 3
	}
	if cfg.Groq.RetryBackoff == 0 {
		cfg.Groq.RetryBackoff = 2 * time.Second
	}
	if cfg.Groq.MaxRequestPerMinute == 0 {
		cfg.Groq.MaxRequestPerMinute = 30
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = 0.1
	}
	if cfg.Gemini.MaxTokens == 0 {
		cfg.Gemini.MaxTokens = 1200
	}
	if cfg.Gemini.MaxAttempts == 0 {
		cfg.Gemini.MaxAttempts = 3
	}
	if cfg.Gemini.RetryBackoff == 0 {
		cfg.Gemini.RetryBackoff = 2 * time.Second
	}
	if cfg.Gemini.MaxRequestPerMinute == 0 {
		cfg.Gemini.MaxRequestPerMinute = 15
	}
	if cfg.OpenRouter.Temperature == 0 {
		cfg.OpenRouter.Temperature = 0.1
	}
	if cfg.OpenRouter.MaxTokens == 0 {
		cfg.OpenRouter.MaxTokens = 1200
	}
	if cfg.OpenRouter.MaxAttempts == 0 {
		cfg.OpenRouter.MaxAttempts = 3
	}
	if cfg.OpenRouter.RetryBackoff == 0 {
		cfg.OpenRouter.RetryBackoff = 2 * time.Second
	}
}

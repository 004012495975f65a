// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/logging"
)

// Provider names accepted by RAGCHAT_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// Config holds every setting of the chat service.
type Config struct {
	Provider string

	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	OllamaModel     string
	OllamaURL       string

	MaxRounds   int
	MaxTokens   int64
	Temperature float64
	MaxHistory  int

	LogLevel  logging.LogLevel
	LogFormat string
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Provider:       ProviderAnthropic,
		AnthropicModel: "claude-sonnet-4-20250514",
		OpenAIModel:    "gpt-4o-mini",
		OllamaModel:    "llama3.1",
		OllamaURL:      "http://localhost:11434",
		MaxRounds:      2,
		MaxTokens:      800,
		Temperature:    0,
		MaxHistory:     2,
		LogLevel:       logging.LogLevelInfo,
		LogFormat:      "text",
	}
}

// FromEnv loads the configuration from the process environment.
func FromEnv(optFns ...func(c *Config)) (*Config, error) {
	return Load(os.LookupEnv, optFns...)
}

// Load builds a configuration from defaults, values found through lookup and
// finally optFns. Malformed values are reported together.
func Load(lookup func(key string) (string, bool), optFns ...func(c *Config)) (*Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("RAGCHAT_PROVIDER", &cfg.Provider)
	str("ANTHROPIC_API_KEY", &cfg.AnthropicAPIKey)
	str("ANTHROPIC_MODEL", &cfg.AnthropicModel)
	str("OPENAI_API_KEY", &cfg.OpenAIAPIKey)
	str("OPENAI_MODEL", &cfg.OpenAIModel)
	str("OLLAMA_MODEL", &cfg.OllamaModel)
	str("OLLAMA_URL", &cfg.OllamaURL)
	str("RAGCHAT_LOG_FORMAT", &cfg.LogFormat)

	if v, ok := lookup("RAGCHAT_MAX_ROUNDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RAGCHAT_MAX_ROUNDS: %w", err))
		} else {
			cfg.MaxRounds = n
		}
	}
	if v, ok := lookup("RAGCHAT_MAX_TOKENS"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RAGCHAT_MAX_TOKENS: %w", err))
		} else {
			cfg.MaxTokens = n
		}
	}
	if v, ok := lookup("RAGCHAT_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RAGCHAT_TEMPERATURE: %w", err))
		} else {
			cfg.Temperature = f
		}
	}
	if v, ok := lookup("RAGCHAT_MAX_HISTORY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RAGCHAT_MAX_HISTORY: %w", err))
		} else {
			cfg.MaxHistory = n
		}
	}
	if v, ok := lookup("RAGCHAT_LOG_LEVEL"); ok {
		level, err := logging.ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RAGCHAT_LOG_LEVEL: %w", err))
		} else {
			cfg.LogLevel = level
		}
	}

	for _, fn := range optFns {
		fn(cfg)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("config: ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("config: OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderOllama:
		if c.OllamaModel == "" {
			return errors.New("config: OLLAMA_MODEL is required for the ollama provider")
		}
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.MaxHistory < 0 {
		return fmt.Errorf("config: max history must not be negative, got %d", c.MaxHistory)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

// Model returns the model id of the selected provider.
func (c *Config) Model() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIModel
	case ProviderOllama:
		return c.OllamaModel
	default:
		return c.AnthropicModel
	}
}

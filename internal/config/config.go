package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/maelik/dungeonmaster/internal/provider/assistant"
)

// Config aggregates the service configuration, loaded from the environment.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	AssistantID   string `envconfig:"ASSISTANT_ID" required:"true"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"500ms"`
	PollMaxAttempts int           `envconfig:"POLL_MAX_ATTEMPTS" default:"120"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.PollMaxAttempts < 1 {
		return nil, fmt.Errorf("POLL_MAX_ATTEMPTS must be at least 1, got %d", cfg.PollMaxAttempts)
	}
	return &cfg, nil
}

// Addr normalizes PORT into a listen address; "8080", ":8080" and
// "127.0.0.1:8080" are all accepted.
func (c *Config) Addr() (string, error) {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		return port, nil
	}
	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}
	return ":" + port, nil
}

// Assistant maps the configuration onto the provider client settings.
func (c *Config) Assistant() assistant.Config {
	return assistant.Config{
		APIKey:      c.OpenAIAPIKey,
		AssistantID: c.AssistantID,
		Model:       c.OpenAIModel,
		BaseURL:     c.OpenAIBaseURL,
		Poll: assistant.PollConfig{
			Interval:    c.PollInterval,
			MaxAttempts: c.PollMaxAttempts,
		},
	}
}

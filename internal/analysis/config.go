package analysis

import (
	"time"

	"workflow-analyzer/internal/common/config"
)

type Config struct {
	WebhookURL string
	// Timeout of the outbound call; zero leaves the client without one.
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		WebhookURL: cfg.Workflow.WebhookURL,
		Timeout:    cfg.Workflow.TimeoutDuration(),
	}
}

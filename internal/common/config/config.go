// internal/common/config/config.go
package config

import "time"

const (
	// DefaultWebhookURL is the workflow endpoint used when nothing overrides it.
	DefaultWebhookURL = "http://localhost:5678/webhook/content-analysis"

	DefaultServerAddress = ":8501"
	DefaultText          = "在此貼上你想分析的長篇文章..."
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address           string `mapstructure:"address"`
	ReadHeaderTimeout int    `mapstructure:"read_header_timeout"` // milliseconds
	ShutdownTimeout   int    `mapstructure:"shutdown_timeout"`    // milliseconds
}

// WorkflowConfig points at the external automation webhook.
type WorkflowConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds, 0 = no client timeout
}

// TimeoutDuration returns the outbound client timeout. Zero means none.
func (w WorkflowConfig) TimeoutDuration() time.Duration {
	return GetDuration(w.Timeout)
}

type UIConfig struct {
	Title       string `mapstructure:"title"`
	Heading     string `mapstructure:"heading"`
	DefaultText string `mapstructure:"default_text"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

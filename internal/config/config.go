package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`

	// Telegram settings. Optional for the CLI, required for the bot.
	TelegramBotToken       string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookURL     string  `env:"TELEGRAM_WEBHOOK_URL"`
	TelegramAllowedUserIDs []int64 `env:"TELEGRAM_ALLOWED_USER_IDS"`
	AdminTelegramID        int64   `env:"ADMIN_TELEGRAM_ID"`

	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// ValidateBot checks the settings the Telegram bot cannot run without.
func (c *Config) ValidateBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

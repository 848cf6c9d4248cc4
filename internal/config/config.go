package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/constants"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"

	"github.com/caarlos0/env/v11"
)

var (
	ErrMissingBotToken     = models.ConfigError{Message: "missing Telegram bot token (set BOT_TOKEN)"}
	ErrMissingKafkaBrokers = models.ConfigError{Message: "missing Kafka broker addresses"}
	ErrMissingStorageURL   = models.ConfigError{Message: "missing object storage endpoint"}
)

// envOverrides are the settings accepted from the process environment.
// Secrets are only ever read from here, never from the config file.
type envOverrides struct {
	BotToken        string   `env:"BOT_TOKEN"`
	LogLevel        string   `env:"SERVER_LOG_LEVEL"`
	FrontendName    string   `env:"SERVER_FRONTEND_NAME"`
	KafkaBrokers    []string `env:"KAFKA_BROKERS" envSeparator:";"`
	StorageEndpoint string   `env:"MINIO_ENDPOINT"`
	MinioAccessKey  string   `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey  string   `env:"MINIO_SECRET_KEY"`
}

// LoadConfig reads the JSON config file, applies environment overrides and
// validates the result.
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnvironmentOverrides(&config); err != nil {
		return nil, err
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyEnvironmentOverrides(c *models.Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if overrides.BotToken != "" {
		c.Telegram.BotToken = overrides.BotToken
	}
	if overrides.LogLevel != "" {
		c.LogLevel = overrides.LogLevel
	}
	if overrides.FrontendName != "" {
		c.Frontend.Name = overrides.FrontendName
	}
	brokers := make([]string, 0, len(overrides.KafkaBrokers))
	for _, broker := range overrides.KafkaBrokers {
		if broker != "" {
			brokers = append(brokers, broker)
		}
	}
	if len(brokers) > 0 {
		c.Kafka.Brokers = brokers
	}
	if overrides.StorageEndpoint != "" {
		c.Storage.Endpoint = overrides.StorageEndpoint
	}
	if overrides.MinioAccessKey != "" {
		c.Storage.AccessKey = overrides.MinioAccessKey
	}
	if overrides.MinioSecretKey != "" {
		c.Storage.SecretKey = overrides.MinioSecretKey
	}

	return nil
}

func validate(c *models.Config) error {
	if c.Telegram.BotToken == "" {
		return ErrMissingBotToken
	}
	if len(c.Kafka.Brokers) == 0 {
		return ErrMissingKafkaBrokers
	}
	if c.Storage.Endpoint == "" {
		return ErrMissingStorageURL
	}

	if c.Server.Host == "" {
		c.Server.Host = constants.DefaultServerHost
	}
	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeout
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}

	if c.Telegram.PollTimeoutSec <= 0 {
		c.Telegram.PollTimeoutSec = constants.DefaultPollTimeoutSec
	}

	if c.Kafka.MessagesTopic == "" {
		c.Kafka.MessagesTopic = constants.DefaultMessagesTopic
	}

	if c.Frontend.Name == "" {
		c.Frontend.Name = constants.DefaultFrontendName
	}
	if c.Frontend.MaxFileSize == "" {
		c.Frontend.MaxFileSize = constants.DefaultMaxFileSize
	}
	maxBytes, err := ParseSize(c.Frontend.MaxFileSize)
	if err != nil {
		return models.ConfigError{Message: fmt.Sprintf("invalid frontend.maxFileSize: %v", err)}
	}
	c.Frontend.MaxFileSizeBytes = maxBytes

	if c.Frontend.Workers <= 0 {
		c.Frontend.Workers = constants.DefaultOffloadWorkers
	}

	return nil
}

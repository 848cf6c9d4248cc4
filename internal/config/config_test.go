package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const validConfig = `{
	"logLevel": "info",
	"kafka": {
		"brokers": ["localhost:9092"],
		"messagesTopic": "frontends.messages.v1"
	},
	"storage": {
		"endpoint": "localhost:9000"
	},
	"frontend": {
		"name": "telegram-main",
		"maxFileSize": "5MiB",
		"whitelist": [-100123, 42]
	}
}`

func TestLoadConfig(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("MINIO_ACCESS_KEY", "access")
	t.Setenv("MINIO_SECRET_KEY", "secret")

	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Telegram.BotToken)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "frontends.messages.v1", cfg.Kafka.MessagesTopic)
	assert.Equal(t, "telegram-main", cfg.Frontend.Name)
	assert.Equal(t, int64(5242880), cfg.Frontend.MaxFileSizeBytes)
	assert.Equal(t, []int64{-100123, 42}, cfg.Frontend.Whitelist)
	assert.Equal(t, "access", cfg.Storage.AccessKey)
	assert.Equal(t, "secret", cfg.Storage.SecretKey)
	assert.True(t, cfg.ShouldUploadFiles())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")

	cfg, err := LoadConfig(writeConfig(t, `{
		"kafka": {"brokers": ["localhost:9092"]},
		"storage": {"endpoint": "localhost:9000"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "telegram", cfg.Frontend.Name)
	assert.Equal(t, "frontends.messages.v1", cfg.Kafka.MessagesTopic)
	assert.Equal(t, int64(10485760), cfg.Frontend.MaxFileSizeBytes)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Telegram.PollTimeoutSec)
	assert.Equal(t, 4, cfg.Frontend.Workers)
	assert.Empty(t, cfg.Frontend.Whitelist)
}

func TestLoadConfig_MissingBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := LoadConfig(writeConfig(t, validConfig))
	assert.ErrorContains(t, err, "bot token")
}

func TestLoadConfig_MissingBrokers(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")

	_, err := LoadConfig(writeConfig(t, `{
		"storage": {"endpoint": "localhost:9000"}
	}`))
	assert.ErrorContains(t, err, "Kafka broker")
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("SERVER_LOG_LEVEL", "debug")
	t.Setenv("SERVER_FRONTEND_NAME", "telegram-backup")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092;kafka-2:9092")

	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "telegram-backup", cfg.Frontend.Name)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfig_InvalidMaxFileSize(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")

	_, err := LoadConfig(writeConfig(t, `{
		"kafka": {"brokers": ["localhost:9092"]},
		"storage": {"endpoint": "localhost:9000"},
		"frontend": {"maxFileSize": "very big"}
	}`))
	assert.ErrorContains(t, err, "maxFileSize")
}

func TestLoadConfig_UploadFilesDisabled(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")

	cfg, err := LoadConfig(writeConfig(t, `{
		"kafka": {"brokers": ["localhost:9092"]},
		"storage": {"endpoint": "localhost:9000"},
		"frontend": {"uploadFiles": false}
	}`))
	require.NoError(t, err)

	assert.False(t, cfg.ShouldUploadFiles())
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

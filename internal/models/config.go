package models

// ConfigError reports an invalid or incomplete configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

type ServerConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	ReadTimeoutSec  int    `json:"readTimeoutSec"`
	WriteTimeoutSec int    `json:"writeTimeoutSec"`
	IdleTimeoutSec  int    `json:"idleTimeoutSec"`
}

type TelegramConfig struct {
	// BotToken is only accepted from the environment (BOT_TOKEN).
	BotToken       string `json:"-"`
	PollTimeoutSec int    `json:"pollTimeoutSec"`
}

type KafkaConfig struct {
	Brokers       []string `json:"brokers"`
	MessagesTopic string   `json:"messagesTopic"`
}

type StorageConfig struct {
	Endpoint  string `json:"endpoint"`
	UseSSL    bool   `json:"useSSL"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
}

type FrontendConfig struct {
	Name string `json:"name"`
	// MaxFileSize accepts human-readable sizes: bare bytes, decimal
	// KB/MB/GB/TB or binary KiB/MiB/GiB/TiB suffixes.
	MaxFileSize      string  `json:"maxFileSize"`
	MaxFileSizeBytes int64   `json:"-"`
	UploadFiles      *bool   `json:"uploadFiles"`
	Whitelist        []int64 `json:"whitelist"`
	IncludeMentioned bool    `json:"includeMentioned"`
	Workers          int     `json:"workers"`
}

type TracingConfig struct {
	ServiceName    string  `json:"serviceName"`
	ServiceVersion string  `json:"serviceVersion"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlpEndpoint"`
	SampleRate     float64 `json:"sampleRate"`
	Enabled        bool    `json:"enabled"`
	UseStdout      bool    `json:"useStdout"`
}

type Config struct {
	LogLevel string         `json:"logLevel"`
	Server   ServerConfig   `json:"server"`
	Telegram TelegramConfig `json:"telegram"`
	Kafka    KafkaConfig    `json:"kafka"`
	Storage  StorageConfig  `json:"storage"`
	Frontend FrontendConfig `json:"frontend"`
	Tracing  TracingConfig  `json:"tracing"`
}

// ShouldUploadFiles reports whether media offload is enabled. Offload
// defaults to on when the config omits the flag.
func (c *Config) ShouldUploadFiles() bool {
	return c.Frontend.UploadFiles == nil || *c.Frontend.UploadFiles
}

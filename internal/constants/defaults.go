package constants

// Default server configuration values
const (
	DefaultServerHost           = "0.0.0.0"
	DefaultServerPort           = 8080
	DefaultServerReadTimeoutSec = 15
	DefaultServerWriteTimeout   = 15
	DefaultServerIdleTimeoutSec = 60
	DefaultGracefulShutdownSec  = 30
)

// Default Telegram configuration values
const (
	DefaultPollTimeoutSec      = 30
	DefaultFileDownloadTimeout = 120
)

// Default pipeline configuration values
const (
	DefaultFrontendName    = "telegram"
	DefaultMessagesTopic   = "frontends.messages.v1"
	DefaultMaxFileSize     = "10MiB"
	DefaultOffloadWorkers  = 4
	DefaultKnownChatsLimit = 100000
)

// Server error channel size
const ServerErrorChannelSize = 1

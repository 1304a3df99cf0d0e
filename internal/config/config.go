package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Game    GameConfig    `mapstructure:"game" validate:"required"`
	Web     WebConfig     `mapstructure:"web"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// GameConfig contains settings for hosting game sessions. The rules and
// timings of the game itself are fixed and not configurable.
type GameConfig struct {
	// MaxSessions caps the number of live sessions held in memory.
	MaxSessions int `mapstructure:"max_sessions" validate:"required,gt=0"`
	// SessionTTLMinutes is how long a session may stay idle before eviction.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" validate:"required,gt=0"`
	// JanitorIntervalSeconds is how often idle sessions are looked for.
	JanitorIntervalSeconds int `mapstructure:"janitor_interval_seconds" validate:"required,gt=0"`
}

// WebConfig contains settings for the HTML front end.
type WebConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// AssetsDir is the directory holding the stage images, served under /img/.
	AssetsDir string `mapstructure:"assets_dir"`
}

// MetricsConfig contains settings for the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Jobs      JobsConfig      `yaml:"jobs" mapstructure:"jobs"`
	Archive   ArchiveConfig   `yaml:"archive" mapstructure:"archive"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	WebSocket WebSocketConfig `yaml:"websocket" mapstructure:"websocket"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxUploadMB  int64         `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	RateLimit    struct {
		Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
		RPS     float64 `yaml:"rps" mapstructure:"rps"`
		Burst   int     `yaml:"burst" mapstructure:"burst"`
	} `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// AnalysisConfig contains document pipeline configuration
type AnalysisConfig struct {
	Workers        int `yaml:"workers" mapstructure:"workers"`
	QueueSize      int `yaml:"queue_size" mapstructure:"queue_size"`
	MinClauseWords int `yaml:"min_clause_words" mapstructure:"min_clause_words"`
	MaxClauseChars int `yaml:"max_clause_chars" mapstructure:"max_clause_chars"`
}

// JobsConfig contains job store configuration
type JobsConfig struct {
	Backend   string        `yaml:"backend" mapstructure:"backend"` // memory or redis
	RedisURL  string        `yaml:"redis_url" mapstructure:"redis_url"`
	KeyPrefix string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ArchiveConfig contains the optional Postgres clause archive configuration
type ArchiveConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL  string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" mapstructure:"conn_lifetime"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Path           string        `yaml:"path" mapstructure:"path"`
	PingInterval   time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout    time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxMessageSize int64         `yaml:"max_message_size" mapstructure:"max_message_size"`
	Events         struct {
		BroadcastClauses     bool `yaml:"broadcast_clauses" mapstructure:"broadcast_clauses"`
		BroadcastAnalyses    bool `yaml:"broadcast_analyses" mapstructure:"broadcast_analyses"`
		BroadcastSystem      bool `yaml:"broadcast_system" mapstructure:"broadcast_system"`
		BroadcastConnections bool `yaml:"broadcast_connections" mapstructure:"broadcast_connections"`
	} `yaml:"events" mapstructure:"events"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxUploadMB:  20,
		},
		Analysis: AnalysisConfig{
			Workers:        4,
			QueueSize:      64,
			MinClauseWords: 5,
			MaxClauseChars: 2000,
		},
		Jobs: JobsConfig{
			Backend:   "memory",
			RedisURL:  "redis://localhost:6379/0",
			KeyPrefix: "clauselens",
			TTL:       24 * time.Hour,
		},
		Archive: ArchiveConfig{
			Enabled:      false,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			ConnLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		WebSocket: WebSocketConfig{
			Enabled:        true,
			Path:           "/ws",
			PingInterval:   54 * time.Second,
			PongTimeout:    60 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxMessageSize: 512,
		},
	}

	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RPS = 10
	cfg.Server.RateLimit.Burst = 20

	cfg.WebSocket.Events.BroadcastClauses = true
	cfg.WebSocket.Events.BroadcastAnalyses = true
	cfg.WebSocket.Events.BroadcastSystem = true
	cfg.WebSocket.Events.BroadcastConnections = true

	return cfg
}

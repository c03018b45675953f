package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Uzbeksil125/chatcore/pkg/log"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Bridge    BridgeConfig
	Log       log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type DatabaseConfig struct {
	Driver          string // sqlite, postgres
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string `mapstructure:"db_name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	FilePath        string `mapstructure:"file_path"` // sqlite only
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

type AuthConfig struct {
	Secret string
}

// BridgeConfig configures the optional cross-instance event bridge.
// When disabled the process delivers events to its own connections only.
type BridgeConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	Channel  string
}

// Load reads configuration from config.yaml and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8085)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 1<<20)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "data/chatcore.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("storage.base_path", "uploads")
	v.SetDefault("auth.secret", "")
	v.SetDefault("bridge.enabled", false)
	v.SetDefault("bridge.address", "localhost:6379")
	v.SetDefault("bridge.password", "")
	v.SetDefault("bridge.db", 0)
	v.SetDefault("bridge.channel", "chatcore:events")
	v.SetDefault("log.level", "info")

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.file_path", "DB_PATH")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("storage.base_path", "UPLOAD_DIR")
	v.BindEnv("auth.secret", "AUTH_SECRET")
	v.BindEnv("bridge.enabled", "BRIDGE_ENABLED")
	v.BindEnv("bridge.address", "REDIS_ADDRESS")
	v.BindEnv("bridge.password", "REDIS_PASSWORD")
	v.BindEnv("log.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, rely on defaults and env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth.secret (AUTH_SECRET) must be set")
	}

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}

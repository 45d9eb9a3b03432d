package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ShilinYang123/PG-PMC-sub001/internal/core/analytics"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MigrationsPath string `mapstructure:"migrations_path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WebSocketConfig struct {
	PingInterval int `mapstructure:"ping_interval"`
	PongTimeout  int `mapstructure:"pong_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// AnalyticsConfig holds the defaults applied when a request or tracked
// metric does not specify its own granularity, aggregation or horizon.
type AnalyticsConfig struct {
	DefaultGranularity string        `mapstructure:"default_granularity"`
	DefaultAggregation string        `mapstructure:"default_aggregation"`
	ForecastPeriods    int           `mapstructure:"forecast_periods"`
	LookbackDays       int           `mapstructure:"lookback_days"`
	Refresh            RefreshConfig `mapstructure:"refresh"`
}

// RefreshConfig controls the scheduled recomputation of tracked metrics.
type RefreshConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Schedule    string `mapstructure:"schedule"`
	MetricsFile string `mapstructure:"metrics_file"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Prefix  string `mapstructure:"prefix"`
}

// Load reads configuration from configs/config.yaml with environment
// variable overrides.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("logging.level", "LOG_LEVEL")
	viper.BindEnv("analytics.refresh.schedule", "PMC_REFRESH_SCHEDULE")
	viper.BindEnv("analytics.refresh.metrics_file", "PMC_METRICS_FILE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing file is fine; defaults and env cover everything.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 3310)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.mode", "development")

	viper.SetDefault("database.path", "./data/pmc.db")
	viper.SetDefault("database.migrations_path", "./migrations")
	viper.SetDefault("database.max_connections", 10)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("websocket.ping_interval", 30)
	viper.SetDefault("websocket.pong_timeout", 60)
	viper.SetDefault("websocket.write_timeout", 10)

	viper.SetDefault("analytics.default_granularity", "day")
	viper.SetDefault("analytics.default_aggregation", "sum")
	viper.SetDefault("analytics.forecast_periods", 7)
	viper.SetDefault("analytics.lookback_days", 30)
	viper.SetDefault("analytics.refresh.enabled", true)
	viper.SetDefault("analytics.refresh.schedule", "@every 5m")
	viper.SetDefault("analytics.refresh.metrics_file", "./configs/metrics.yaml")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.prefix", "pmc")
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Analytics.ForecastPeriods < 1 {
		return fmt.Errorf("analytics.forecast_periods must be >= 1, got %d", cfg.Analytics.ForecastPeriods)
	}
	if cfg.Analytics.LookbackDays < 1 {
		return fmt.Errorf("analytics.lookback_days must be >= 1, got %d", cfg.Analytics.LookbackDays)
	}
	if _, err := analytics.ParseGranularity(cfg.Analytics.DefaultGranularity); err != nil {
		return fmt.Errorf("invalid analytics.default_granularity: %w", err)
	}
	if _, err := analytics.ParseAggregationKind(cfg.Analytics.DefaultAggregation); err != nil {
		return fmt.Errorf("invalid analytics.default_aggregation: %w", err)
	}
	return nil
}

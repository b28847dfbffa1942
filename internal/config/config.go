package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Trial    TrialConfig    `mapstructure:"trial"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StorageConfig struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

// TrialConfig carries the fixed clinical-trial protocol parameters.
type TrialConfig struct {
	DurationDays    int           `mapstructure:"duration_days"`
	TrendWindow     int           `mapstructure:"trend_window"`
	SessionPageSize int           `mapstructure:"session_page_size"`
	MetricsCacheTTL time.Duration `mapstructure:"metrics_cache_ttl"`

	// How often patient session counters are recomputed from the
	// therapy_sessions table.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// secrets are the values that must never live in the config file.
type secrets struct {
	DBPassword    string `envconfig:"DB_PASSWORD"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var sec secrets
	if err := envconfig.Process("trialdash", &sec); err != nil {
		return nil, fmt.Errorf("failed to read environment secrets: %w", err)
	}
	if sec.DBPassword != "" {
		config.Database.Password = sec.DBPassword
	}
	if sec.RedisPassword != "" {
		config.Redis.Password = sec.RedisPassword
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.request_timeout", 30*time.Second)
	viper.SetDefault("server.rate_limit_rps", 50)
	viper.SetDefault("server.rate_limit_burst", 100)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("trial.duration_days", 84)
	viper.SetDefault("trial.trend_window", 5)
	viper.SetDefault("trial.session_page_size", 10)
	viper.SetDefault("trial.metrics_cache_ttl", time.Minute)
	viper.SetDefault("trial.refresh_interval", 5*time.Minute)
	viper.SetDefault("logging.level", "info")
}

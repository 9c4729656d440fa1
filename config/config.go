package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Environment    string        `mapstructure:"environment"`
	MetricsEnabled bool          `mapstructure:"metrics_enabled"`
	Server         ServerConfig  `mapstructure:"server"`
	Logging        LoggingConfig `mapstructure:"logging"`
	Store          StoreConfig   `mapstructure:"store"`
	Worker         WorkerConfig  `mapstructure:"worker"`
	Redis          RedisConfig   `mapstructure:"redis"`
	Azure          AzureConfig   `mapstructure:"azure"`
	Tracing        TracingConfig `mapstructure:"tracing"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Address     string        `mapstructure:"address"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CorsEnabled bool          `mapstructure:"cors_enabled"`
	CorsOrigins []string      `mapstructure:"cors_origins"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig holds the dataset file store configuration
type StoreConfig struct {
	Path       string `mapstructure:"path"`
	BackupDir  string `mapstructure:"backup_dir"`
	PrettyJSON bool   `mapstructure:"pretty_json"`
}

// WorkerConfig holds the background worker configuration
type WorkerConfig struct {
	AuditInterval  time.Duration `mapstructure:"audit_interval"`
	BackupInterval time.Duration `mapstructure:"backup_interval"`
	BackupKeep     int           `mapstructure:"backup_keep"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Enabled  bool          `mapstructure:"enabled"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AzureConfig holds Azure Service Bus configuration
type AzureConfig struct {
	QueueConnStr string `mapstructure:"queue_conn_str"`
	QueueName    string `mapstructure:"queue_name"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	LicenseKey     string `mapstructure:"license_key"`
	AppName        string `mapstructure:"app_name"`
	LogEnabled     bool   `mapstructure:"log_enabled"`
	DistribTracing bool   `mapstructure:"distributed_tracing_enabled"`
}

// LoadConfig reads configuration from file or environment variables
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Setup configuration paths
	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Continue even if no config file is found - we'll use ENV vars and defaults
			fmt.Printf("Warning: No configuration file found: %v\n", err)
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Enable environment variables to override config
	v.SetEnvPrefix("PRODUCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Core settings
	v.SetDefault("environment", "development")
	v.SetDefault("server.address", "0.0.0.0:8080")
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("server.cors_enabled", true)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("metrics_enabled", true)

	// Store settings
	v.SetDefault("store.path", "./data/orders.json")
	v.SetDefault("store.backup_dir", "./data/backups")
	v.SetDefault("store.pretty_json", true)

	// Worker settings
	v.SetDefault("worker.audit_interval", "5m")
	v.SetDefault("worker.backup_interval", "1h")
	v.SetDefault("worker.backup_keep", 24)

	// Redis settings
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.ttl", "30s")

	// Azure settings
	v.SetDefault("azure.queue_name", "production-progress-events")

	// Tracing settings
	v.SetDefault("tracing.app_name", "Production Tracking Service")
	v.SetDefault("tracing.log_enabled", true)
	v.SetDefault("tracing.distributed_tracing_enabled", true)

	// Logging settings
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

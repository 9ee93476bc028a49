// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/NomadCrew/contact-intake/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	minJWTLength = 32
)

// Store drivers selectable through SERVER.STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// JwtSecretKey verifies operator bearer tokens on the listing API.
	JwtSecretKey string `mapstructure:"JWT_SECRET_KEY" yaml:"jwt_secret_key"`
	// StoreDriver is one of postgres, sqlite or memory.
	StoreDriver string `mapstructure:"STORE_DRIVER" yaml:"store_driver"`
	SQLitePath  string `mapstructure:"SQLITE_PATH" yaml:"sqlite_path"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	// If empty, X-Forwarded-For headers are ignored entirely.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// DatabaseConfig holds PostgreSQL database connection details.
type DatabaseConfig struct {
	Host         string `mapstructure:"HOST" yaml:"host"`
	Port         int    `mapstructure:"PORT" yaml:"port"`
	User         string `mapstructure:"USER" yaml:"user"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	Name         string `mapstructure:"NAME" yaml:"name"`
	SSLMode      string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS" yaml:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"MAX_IDLE_CONNS" yaml:"max_idle_conns"`
	ConnMaxLife  string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and other
// URL-based database tools.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}

// RedisConfig holds Redis connection details. An empty Address disables the
// event publisher.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
	// Channel receives submission.created events.
	Channel string `mapstructure:"CHANNEL" yaml:"channel"`
}

// EmailConfig holds configuration for sending emails.
type EmailConfig struct {
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
	// OperatorAddress receives a notice for every accepted submission.
	OperatorAddress string `mapstructure:"OPERATOR_ADDRESS" yaml:"operator_address"`
}

// NotificationConfig toggles the post-create side effects.
type NotificationConfig struct {
	Enabled bool `mapstructure:"ENABLED" yaml:"enabled"`
	// TimeoutSeconds bounds a single notification job.
	TimeoutSeconds int `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// WorkerPoolConfig holds configuration for the notification worker pool.
type WorkerPoolConfig struct {
	// MaxWorkers is the number of concurrent workers (default: 4)
	MaxWorkers int `mapstructure:"MAX_WORKERS" yaml:"max_workers"`
	// QueueSize is the maximum number of pending jobs (default: 256)
	QueueSize int `mapstructure:"QUEUE_SIZE" yaml:"queue_size"`
	// ShutdownTimeoutSeconds is the max time to wait for workers during shutdown (default: 30)
	ShutdownTimeoutSeconds int `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// ExportConfig points contactctl export at an S3 compatible bucket.
type ExportConfig struct {
	Bucket          string `mapstructure:"BUCKET" yaml:"bucket"`
	Prefix          string `mapstructure:"PREFIX" yaml:"prefix"`
	Region          string `mapstructure:"REGION" yaml:"region"`
	Endpoint        string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server       ServerConfig       `mapstructure:"SERVER" yaml:"server"`
	Database     DatabaseConfig     `mapstructure:"DATABASE" yaml:"database"`
	Redis        RedisConfig        `mapstructure:"REDIS" yaml:"redis"`
	Email        EmailConfig        `mapstructure:"EMAIL" yaml:"email"`
	Notification NotificationConfig `mapstructure:"NOTIFICATION" yaml:"notification"`
	WorkerPool   WorkerPoolConfig   `mapstructure:"WORKER_POOL" yaml:"worker_pool"`
	Export       ExportConfig       `mapstructure:"EXPORT" yaml:"export"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// Redacted returns a copy of c with every secret masked, safe to print.
func (c Config) Redacted() Config {
	c.Server.JwtSecretKey = logger.MaskSensitiveString(c.Server.JwtSecretKey, 0, 0)
	c.Database.Password = logger.MaskSensitiveString(c.Database.Password, 0, 0)
	c.Redis.Password = logger.MaskSensitiveString(c.Redis.Password, 0, 0)
	c.Email.ResendAPIKey = logger.MaskSensitiveString(c.Email.ResendAPIKey, 3, 0)
	c.Export.SecretAccessKey = logger.MaskSensitiveString(c.Export.SecretAccessKey, 0, 0)
	return c
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	return load(true)
}

// LoadToolConfig loads the same configuration for operator tooling, which
// never verifies bearer tokens and so does not need JWT_SECRET_KEY.
func LoadToolConfig() (*Config, error) {
	return load(false)
}

func load(requireJWT bool) (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("SERVER.STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("SERVER.SQLITE_PATH", "data/contact-intake.db")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "contact_intake")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 5)
	v.SetDefault("DATABASE.MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("REDIS.ADDRESS", "")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("REDIS.CHANNEL", "submissions:created")
	v.SetDefault("EMAIL.FROM_NAME", "Contact Intake")
	v.SetDefault("NOTIFICATION.ENABLED", false)
	v.SetDefault("NOTIFICATION.TIMEOUT_SECONDS", 10)
	v.SetDefault("WORKER_POOL.MAX_WORKERS", 4)
	v.SetDefault("WORKER_POOL.QUEUE_SIZE", 256)
	v.SetDefault("WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", 30)
	v.SetDefault("EXPORT.PREFIX", "exports")
	v.SetDefault("EXPORT.REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.JWT_SECRET_KEY", "JWT_SECRET_KEY"},
		{"SERVER.STORE_DRIVER", "STORE_DRIVER"},
		{"SERVER.SQLITE_PATH", "SQLITE_PATH"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		// Database config
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		{"REDIS.CHANNEL", "REDIS_CHANNEL"},
		// Email config
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"EMAIL.OPERATOR_ADDRESS", "EMAIL_OPERATOR_ADDRESS"},
		// Notification config
		{"NOTIFICATION.ENABLED", "NOTIFICATION_ENABLED"},
		{"NOTIFICATION.TIMEOUT_SECONDS", "NOTIFICATION_TIMEOUT_SECONDS"},
		// WorkerPool config
		{"WORKER_POOL.MAX_WORKERS", "WORKER_POOL_MAX_WORKERS"},
		{"WORKER_POOL.QUEUE_SIZE", "WORKER_POOL_QUEUE_SIZE"},
		{"WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", "WORKER_POOL_SHUTDOWN_TIMEOUT_SECONDS"},
		// Export config
		{"EXPORT.BUCKET", "EXPORT_BUCKET"},
		{"EXPORT.PREFIX", "EXPORT_PREFIX"},
		{"EXPORT.REGION", "EXPORT_REGION"},
		{"EXPORT.ENDPOINT", "EXPORT_ENDPOINT"},
		{"EXPORT.ACCESS_KEY_ID", "EXPORT_ACCESS_KEY_ID"},
		{"EXPORT.SECRET_ACCESS_KEY", "EXPORT_SECRET_ACCESS_KEY"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"store_driver", v.GetString("SERVER.STORE_DRIVER"),
		"db_host", v.GetString("DATABASE.HOST"),
		"allowed_origins", v.GetStringSlice("SERVER.ALLOWED_ORIGINS"),
		"trusted_proxies", v.GetStringSlice("SERVER.TRUSTED_PROXIES"),
		"notifications_enabled", v.GetBool("NOTIFICATION.ENABLED"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg, requireJWT); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config, requireJWT bool) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if requireJWT && len(cfg.Server.JwtSecretKey) < minJWTLength {
		return fmt.Errorf("JWT secret key must be at least %d characters long", minJWTLength)
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	switch cfg.Server.StoreDriver {
	case StoreDriverPostgres:
		if cfg.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if cfg.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if cfg.Database.Password == "" {
			log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
		}
		if cfg.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	case StoreDriverSQLite:
		if cfg.Server.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite store driver")
		}
	case StoreDriverMemory:
		if cfg.IsProduction() {
			log.Warn("Memory store selected in production; submissions will not survive a restart")
		}
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Server.StoreDriver)
	}

	if cfg.Redis.Password == "" && cfg.Redis.UseTLS {
		log.Warn("Redis password is not set, but TLS is enabled. Ensure this is correct for your Redis provider.")
	}

	if err := validateNotificationConfig(cfg, log); err != nil {
		return err
	}

	if cfg.WorkerPool.MaxWorkers <= 0 {
		return fmt.Errorf("worker pool max workers must be positive")
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		return fmt.Errorf("worker pool queue size must be positive")
	}
	if cfg.WorkerPool.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("worker pool shutdown timeout must be positive")
	}

	return nil
}

// validateNotificationConfig checks the post-create side effects. If enabled
// without any sink configured, it auto-disables notifications with a warning.
func validateNotificationConfig(cfg *Config, log *zap.SugaredLogger) error {
	if !cfg.Notification.Enabled {
		return nil
	}

	emailReady := cfg.Email.ResendAPIKey != "" && cfg.Email.OperatorAddress != ""
	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromAddress == "" {
		return fmt.Errorf("email from address is required when a resend API key is set")
	}
	if !emailReady && cfg.Redis.Address == "" {
		log.Warn("Notifications enabled but neither Resend nor Redis is configured, auto-disabling notifications")
		cfg.Notification.Enabled = false
		return nil
	}

	if cfg.Notification.TimeoutSeconds <= 0 {
		return fmt.Errorf("notification timeout must be positive")
	}
	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ExposeErrors bool   `yaml:"expose_errors" env:"SERVER_EXPOSE_ERRORS"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrateOnStart  bool   `yaml:"migrate_on_start" env:"DB_MIGRATE_ON_START"`
	} `yaml:"database"`

	Auth struct {
		SupabaseURL         string `yaml:"supabase_url" env:"SUPABASE_URL"`
		AnonKey             string `yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
		ServiceKey          string `yaml:"service_key" env:"SUPABASE_SERVICE_KEY"`
		JWTSecret           string `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
		AdminRole           string `yaml:"admin_role" env:"AUTH_ADMIN_ROLE"`
		RecoveryRedirectURL string `yaml:"recovery_redirect_url" env:"AUTH_RECOVERY_REDIRECT_URL"`
	} `yaml:"auth"`

	Storage struct {
		Provider     string `yaml:"provider" env:"STORAGE_PROVIDER"`
		Bucket       string `yaml:"bucket" env:"STORAGE_BUCKET"`
		SignedURLTTL string `yaml:"signed_url_ttl" env:"STORAGE_SIGNED_URL_TTL"`
		LocalPath    string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
		LocalBaseURL string `yaml:"local_base_url" env:"STORAGE_LOCAL_BASE_URL"`
	} `yaml:"storage"`

	Email struct {
		Provider               string  `yaml:"provider" env:"EMAIL_PROVIDER"`
		Host                   string  `yaml:"host" env:"SMTP_HOST"`
		Port                   int     `yaml:"port" env:"SMTP_PORT"`
		Username               string  `yaml:"username" env:"SMTP_USER"`
		Password               string  `yaml:"password" env:"SMTP_PASS"`
		UseTLS                 bool    `yaml:"use_tls" env:"SMTP_USE_TLS"`
		FromName               string  `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		FromEmail              string  `yaml:"from_email" env:"EMAIL_FROM"`
		SendGridAPIKey         string  `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
		FrontendURL            string  `yaml:"frontend_url" env:"FRONTEND_URL"`
		BroadcastConcurrency   int     `yaml:"broadcast_concurrency" env:"EMAIL_BROADCAST_CONCURRENCY"`
		BroadcastRatePerSecond float64 `yaml:"broadcast_rate_per_second" env:"EMAIL_BROADCAST_RATE"`
		RetryMax               int     `yaml:"retry_max" env:"EMAIL_RETRY_MAX"`
		RetryInitialBackoff    string  `yaml:"retry_initial_backoff" env:"EMAIL_RETRY_INITIAL_BACKOFF"`
		SendTimeout            string  `yaml:"send_timeout" env:"EMAIL_SEND_TIMEOUT"`
	} `yaml:"email"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory, when present, is loaded into the
// process environment first; variables already set take precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "15s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "egresados"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrateOnStart = true

	config.Auth.AdminRole = "administrador"

	config.Storage.Provider = "local"
	config.Storage.Bucket = "documentos"
	config.Storage.SignedURLTTL = "10m"
	config.Storage.LocalPath = "uploads"
	config.Storage.LocalBaseURL = "http://localhost:8080/uploads"

	config.Email.Provider = "console"
	config.Email.Port = 587
	config.Email.FromName = "Seguimiento de Egresados"
	config.Email.FromEmail = "no-reply@egresados.local"
	config.Email.FrontendURL = "http://localhost:5173"
	config.Email.BroadcastConcurrency = 4
	config.Email.BroadcastRatePerSecond = 2
	config.Email.RetryMax = 3
	config.Email.RetryInitialBackoff = "500ms"
	config.Email.SendTimeout = "15s"

	config.CORS.AllowedOrigins = []string{"http://localhost:5173"}

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Auth.SupabaseURL == "" {
		return fmt.Errorf("auth provider URL is required")
	}

	if config.Auth.AdminRole == "" {
		return fmt.Errorf("admin role is required")
	}

	switch strings.ToLower(config.Storage.Provider) {
	case "local":
	case "supabase":
		if config.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for the supabase provider")
		}
	default:
		return fmt.Errorf("unknown storage provider %q", config.Storage.Provider)
	}

	switch strings.ToLower(config.Email.Provider) {
	case "console":
	case "smtp":
		if config.Email.Host == "" {
			return fmt.Errorf("SMTP host is required for the smtp email provider")
		}
	case "sendgrid":
		if config.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required for the sendgrid email provider")
		}
	default:
		return fmt.Errorf("unknown email provider %q", config.Email.Provider)
	}

	if config.Email.BroadcastConcurrency <= 0 {
		return fmt.Errorf("email broadcast concurrency must be positive")
	}
	if config.Email.BroadcastRatePerSecond <= 0 {
		return fmt.Errorf("email broadcast rate must be positive")
	}

	for name, value := range map[string]string{
		"server read timeout":  config.Server.ReadTimeout,
		"server write timeout": config.Server.WriteTimeout,
		"db conn max lifetime": config.Database.ConnMaxLifetime,
		"signed url ttl":       config.Storage.SignedURLTTL,
		"email retry backoff":  config.Email.RetryInitialBackoff,
		"email send timeout":   config.Email.SendTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return dsn.String()
}

// GetMigrationURL returns the connection string in the scheme expected by the
// golang-migrate pgx/v5 driver.
func (c *Config) GetMigrationURL() string {
	return "pgx5" + strings.TrimPrefix(c.GetPostgresConnectionString(), "postgres")
}

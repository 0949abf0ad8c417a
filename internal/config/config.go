package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	Storage StorageConfig
	S3      S3Config
	Cache   CacheConfig
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Repair  RepairConfig
	Metrics MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	// PublicURL is the externally visible base URL used to build document links.
	PublicURL string `mapstructure:"public_url"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// StorageConfig selects and tunes the document storage backend.
type StorageConfig struct {
	Backend       string `mapstructure:"backend"`
	LocalDir      string `mapstructure:"local_dir"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// UsesS3 reports whether documents are kept in S3.
func (s *StorageConfig) UsesS3() bool {
	return strings.EqualFold(s.Backend, "s3")
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// CacheConfig holds Redis settings for the document resolution cache.
// An empty Addr disables caching.
type CacheConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Enabled reports whether a cache address was configured.
func (c *CacheConfig) Enabled() bool {
	return c.Addr != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// RepairConfig holds the schedule for the background document repair job.
// An empty Schedule disables it.
type RepairConfig struct {
	Schedule string `mapstructure:"schedule"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from environment variables with the BROKERDESK_ prefix.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config.Load: ignoring .env: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("BROKERDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.public_url", "http://localhost:5000")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "brokerdesk")
	v.SetDefault("db.password", "brokerdesk_secret")
	v.SetDefault("db.name", "insurance_brokerage")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "60m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "brokerdesk")

	// Storage defaults
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_dir", "./uploads")
	v.SetDefault("storage.max_file_size_mb", 10)
	v.SetDefault("storage.presign_expiry", 900)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "brokerdesk-documents")
	v.SetDefault("s3.endpoint", "")

	// Cache defaults
	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "10m")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@brokerdesk.lk")
	v.SetDefault("email.from_name", "BrokerDesk")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	v.SetDefault("repair.schedule", "")
	v.SetDefault("metrics.enabled", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "BROKERDESK_SERVER_PORT",
		"server.read_timeout":      "BROKERDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "BROKERDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":       "BROKERDESK_SERVER_ENVIRONMENT",
		"server.public_url":        "BROKERDESK_SERVER_PUBLIC_URL",
		"db.host":                  "BROKERDESK_DB_HOST",
		"db.port":                  "BROKERDESK_DB_PORT",
		"db.user":                  "BROKERDESK_DB_USER",
		"db.password":              "BROKERDESK_DB_PASSWORD",
		"db.name":                  "BROKERDESK_DB_NAME",
		"db.sslmode":               "BROKERDESK_DB_SSLMODE",
		"db.max_open":              "BROKERDESK_DB_MAX_OPEN",
		"db.max_idle":              "BROKERDESK_DB_MAX_IDLE",
		"jwt.secret":               "BROKERDESK_JWT_SECRET",
		"jwt.access_expiry":        "BROKERDESK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "BROKERDESK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "BROKERDESK_JWT_ISSUER",
		"storage.backend":          "BROKERDESK_STORAGE_BACKEND",
		"storage.local_dir":        "BROKERDESK_STORAGE_LOCAL_DIR",
		"storage.max_file_size_mb": "BROKERDESK_STORAGE_MAX_FILE_SIZE_MB",
		"storage.presign_expiry":   "BROKERDESK_STORAGE_PRESIGN_EXPIRY",
		"s3.region":                "BROKERDESK_S3_REGION",
		"s3.bucket":                "BROKERDESK_S3_BUCKET",
		"s3.endpoint":              "BROKERDESK_S3_ENDPOINT",
		"s3.access_key":            "BROKERDESK_S3_ACCESS_KEY",
		"s3.secret_key":            "BROKERDESK_S3_SECRET_KEY",
		"cache.addr":               "BROKERDESK_CACHE_ADDR",
		"cache.password":           "BROKERDESK_CACHE_PASSWORD",
		"cache.db":                 "BROKERDESK_CACHE_DB",
		"cache.ttl":                "BROKERDESK_CACHE_TTL",
		"log.level":                "BROKERDESK_LOG_LEVEL",
		"log.format":               "BROKERDESK_LOG_FORMAT",
		"cors.allowed_origins":     "BROKERDESK_CORS_ALLOWED_ORIGINS",
		"email.provider":           "BROKERDESK_EMAIL_PROVIDER",
		"email.region":             "BROKERDESK_EMAIL_REGION",
		"email.from_address":       "BROKERDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":          "BROKERDESK_EMAIL_FROM_NAME",
		"email.frontend_url":       "BROKERDESK_EMAIL_FRONTEND_URL",
		"repair.schedule":          "BROKERDESK_REPAIR_SCHEDULE",
		"metrics.enabled":          "BROKERDESK_METRICS_ENABLED",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if BROKERDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BROKERDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		PublicURL:    strings.TrimRight(v.GetString("server.public_url"), "/"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Storage = StorageConfig{
		Backend:       v.GetString("storage.backend"),
		LocalDir:      v.GetString("storage.local_dir"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Cache = CacheConfig{
		Addr:     v.GetString("cache.addr"),
		Password: v.GetString("cache.password"),
		DB:       v.GetInt("cache.db"),
		TTL:      v.GetDuration("cache.ttl"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Repair = RepairConfig{Schedule: strings.TrimSpace(v.GetString("repair.schedule"))}
	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("metrics.enabled")}

	if cfg.Storage.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("storage.max_file_size_mb must be positive, got %d", cfg.Storage.MaxFileSizeMB)
	}

	return cfg, nil
}

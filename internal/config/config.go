package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Media     MediaConfig     `yaml:"media"`
	JWT       JWTConfig       `yaml:"jwt"`
	CSRF      CSRFConfig      `yaml:"csrf"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int           `yaml:"port"`
	Host         string        `yaml:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	MaxUploadMB  int64         `yaml:"max_upload_mb"`

	// TrustedProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustedProxy bool `yaml:"trusted_proxy"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// MediaConfig selects and configures the image store
type MediaConfig struct {
	Driver    string   `yaml:"driver"` // "fs" or "s3"
	UploadDir string   `yaml:"upload_dir"`
	S3        S3Config `yaml:"s3"`
}

// S3Config holds S3-compatible bucket configuration
type S3Config struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
}

// JWTConfig holds JWT configuration. A zero TTL issues tokens without exp.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// CSRFConfig controls the form token endpoint and its enforcement
type CSRFConfig struct {
	Enforce bool          `yaml:"enforce"`
	TTL     time.Duration `yaml:"ttl"`
}

// RateLimitConfig configures the Redis-backed login limiter.
// The limiter is off when RedisAddr is empty.
type RateLimitConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	LoginAttempts int64         `yaml:"login_attempts"`
	Window        time.Duration `yaml:"window"`
}

// TelemetryConfig holds tracing configuration. Tracing is off when OTLPEndpoint is empty.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file, then applies environment overrides
// (optionally sourced from a .env file) and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration without touching the environment
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	overrides := map[string]*string{
		"PHOTOGRAM_JWT_SECRET":        &c.JWT.Secret,
		"PHOTOGRAM_DATABASE_PASSWORD": &c.Database.Password,
		"PHOTOGRAM_S3_ACCESS_KEY":     &c.Media.S3.AccessKey,
		"PHOTOGRAM_S3_SECRET_KEY":     &c.Media.S3.SecretKey,
		"PHOTOGRAM_REDIS_PASSWORD":    &c.RateLimit.RedisPassword,
		"PHOTOGRAM_UPLOAD_DIR":        &c.Media.UploadDir,
	}
	for key, field := range overrides {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 16
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Media.Driver == "" {
		c.Media.Driver = "fs"
	}
	if c.Media.UploadDir == "" {
		c.Media.UploadDir = "uploads"
	}
	if c.CSRF.TTL == 0 {
		c.CSRF.TTL = time.Hour
	}
	if c.RateLimit.LoginAttempts == 0 {
		c.RateLimit.LoginAttempts = 10
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "photogram-backend"
	}
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	switch c.Media.Driver {
	case "fs":
	case "s3":
		if c.Media.S3.Bucket == "" {
			return errors.New("media.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown media driver %q", c.Media.Driver)
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	if c.MaxConns > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", c.MaxConns)
	}
	return dsn
}

// MaxUploadBytes returns the multipart body limit in bytes
func (c *ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

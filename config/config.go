package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage backends for campaign templates
const (
	StorageDrive = "drive"
	StorageS3    = "s3"
	StorageLocal = "local"
)

// Config holds the server settings read from the environment
type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`

	// BaseURL is the public address used in share links and screenshots
	BaseURL   string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	JWTSecret string `env:"JWT_SECRET"`

	StorageType      string `env:"STORAGE_TYPE" envDefault:"local"`
	CredentialsPath  string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	DriveFolderID    string `env:"DRIVE_FOLDER_ID"`
	S3BucketName     string `env:"S3_BUCKET_NAME"`
	LocalStoragePath string `env:"LOCAL_STORAGE_PATH" envDefault:"./data/templates"`

	CacheDir   string `env:"CACHE_DIR" envDefault:"./cache/templates"`
	ChromePath string `env:"CHROME_PATH"`
	// WasmDir holds editor.wasm and wasm_exec.js produced by the editor build
	WasmDir string `env:"WASM_DIR" envDefault:"./dist"`

	MaxUploadMB int `env:"MAX_UPLOAD_MB" envDefault:"10"`

	OTELEndpoint   string   `env:"OTEL_ENDPOINT"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load parses the environment into a Config and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	switch c.StorageType {
	case StorageDrive:
		if c.CredentialsPath == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS environment variable is not set")
		}
	case StorageS3:
		if c.S3BucketName == "" {
			return fmt.Errorf("S3_BUCKET_NAME environment variable is not set")
		}
	case StorageLocal:
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q (expected drive, s3 or local)", c.StorageType)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

// IsProduction reports whether ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN returns DATABASE_URL or a connection string built from the DB_* parts
func (c *Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode), nil
}

// ListenAddr listens on all interfaces, accepting PORT with or without a leading colon
func (c *Config) ListenAddr() string {
	return "0.0.0.0:" + strings.TrimPrefix(c.Port, ":")
}

// MaxUploadBytes is the template upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// PublicURL joins BaseURL and path
func (c *Config) PublicURL(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

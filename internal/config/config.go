package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort       = "8080"
	defaultAccessTTL  = "15m"
	defaultRefreshTTL = "168h"
	defaultResetTTL   = "1h"
	defaultUploadDir  = "./uploads"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	// Token lifecycle. Access and refresh TTLs are deliberately distinct:
	// a short-lived access token and a 7-day refresh token.
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration

	CookieSecure bool

	StorageType    string // "local" or "s3"
	UploadDir      string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKeyID  string
	S3SecretAccess string

	CORSAllowedOrigins []string
}

// Load reads the runtime configuration from the environment and validates
// it. A missing JWT_SECRET is a startup error, never defaulted.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev"))),
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		StorageType: strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		UploadDir:   getEnv("UPLOAD_DIR", defaultUploadDir),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	var err error
	if cfg.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = parseDurationEnv("JWT_REFRESH_TTL", defaultRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.ResetTTL, err = parseDurationEnv("RESET_TOKEN_TTL", defaultResetTTL); err != nil {
		return nil, err
	}

	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", "false") || cfg.IsProduction()

	switch cfg.StorageType {
	case "local":
	case "s3":
		cfg.S3Bucket = strings.TrimSpace(os.Getenv("S3_BUCKET"))
		cfg.S3Region = getEnv("S3_REGION", "auto")
		cfg.S3Endpoint = strings.TrimSpace(os.Getenv("S3_ENDPOINT"))
		cfg.S3AccessKeyID = strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID"))
		cfg.S3SecretAccess = strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY"))
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET must be set when STORAGE_TYPE=s3")
		}
		if cfg.S3AccessKeyID == "" || cfg.S3SecretAccess == "" {
			return nil, fmt.Errorf("S3 credentials must be set when STORAGE_TYPE=s3")
		}
	default:
		return nil, fmt.Errorf("STORAGE_TYPE must be one of: local, s3")
	}

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

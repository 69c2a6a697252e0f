// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Database struct {
	Driver     string // postgres or sqlite
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

// DSN returns the Postgres connection string, preferring DATABASE_URL.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Enabled reports whether every Cloudinary credential is set.
func (c Cloudinary) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

type Config struct {
	Port            string
	Env             string
	Database        Database
	JWTSecret       string
	APIKey          string
	AllowedOrigins  []string
	RedisURL        string
	CartDir         string
	CartTTL         time.Duration
	Cloudinary      Cloudinary
	UploadDir       string
	PublicBaseURL   string
	// BackupDir enables the nightly copy of UploadDir when set.
	BackupDir       string
	BackupRetention time.Duration
	SMTP            SMTP
	RateLimit       int
	RateWindow      time.Duration
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Port: "5000",
		Env:  "development",
		Database: Database{
			Driver:     "postgres",
			SQLitePath: "catalog.db",
		},
		AllowedOrigins:  []string{"https://zurpackweb.vercel.app", "http://localhost:5173"},
		CartDir:         "data/carts",
		CartTTL:         30 * 24 * time.Hour,
		UploadDir:       "uploads",
		PublicBaseURL:   "http://localhost:5000",
		BackupRetention: 4 * 24 * time.Hour,
		SMTP:            SMTP{Host: "smtp.gmail.com", Port: 587},
		RateLimit:       100,
		RateWindow:      15 * time.Minute,
	}
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	str(&cfg.Port, "PORT")
	str(&cfg.Env, "APP_ENV")

	str(&cfg.Database.Driver, "DB_DRIVER")
	str(&cfg.Database.URL, "DATABASE_URL")
	str(&cfg.Database.Host, "DB_HOST")
	str(&cfg.Database.Port, "DB_PORT")
	str(&cfg.Database.User, "DB_USER")
	str(&cfg.Database.Password, "DB_PASSWORD")
	str(&cfg.Database.Name, "DB_NAME")
	str(&cfg.Database.SQLitePath, "SQLITE_PATH")

	str(&cfg.JWTSecret, "JWT_SECRET")
	str(&cfg.APIKey, "API_KEY")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	str(&cfg.RedisURL, "REDIS_URL")
	str(&cfg.CartDir, "CART_DIR")

	str(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	str(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	str(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	str(&cfg.UploadDir, "UPLOAD_DIR")
	str(&cfg.PublicBaseURL, "PUBLIC_BASE_URL")
	str(&cfg.BackupDir, "BACKUP_DIR")

	str(&cfg.SMTP.Host, "SMTP_HOST")
	str(&cfg.SMTP.User, "EMAIL_USER")
	str(&cfg.SMTP.Password, "EMAIL_PASSWORD")
	str(&cfg.SMTP.To, "EMAIL_TO")
	if cfg.SMTP.To == "" {
		cfg.SMTP.To = cfg.SMTP.User
	}

	var err error
	if cfg.SMTP.Port, err = integer("SMTP_PORT", cfg.SMTP.Port); err != nil {
		return cfg, err
	}
	if cfg.RateLimit, err = integer("RATE_LIMIT", cfg.RateLimit); err != nil {
		return cfg, err
	}
	if cfg.RateWindow, err = duration("RATE_WINDOW", cfg.RateWindow); err != nil {
		return cfg, err
	}
	if cfg.CartTTL, err = duration("CART_TTL", cfg.CartTTL); err != nil {
		return cfg, err
	}
	if cfg.BackupRetention, err = duration("BACKUP_RETENTION", cfg.BackupRetention); err != nil {
		return cfg, err
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func str(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func integer(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

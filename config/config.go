package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Checkout   CheckoutConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	Seed       SeedConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// StoreTimeout bounds every database call made on behalf of a request.
	StoreTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// CheckoutConfig points at the processor facade that creates and verifies
// checkout sessions.
type CheckoutConfig struct {
	BaseURL   string
	PayeeName string
	Timeout   time.Duration
}

type RedisConfig struct {
	Addr string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// SeedConfig is the admin account created on first boot.
type SeedConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] .env not loaded: %v", err)
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			StoreTimeout: getDuration("STORE_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_URL", "host=localhost user=agencydesk password=agencydesk dbname=agencydesk port=5432 sslmode=disable"),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "agencydesk",
		},
		Checkout: CheckoutConfig{
			BaseURL:   getEnv("CHECKOUT_BASE_URL", "http://localhost:4242"),
			PayeeName: getEnv("CHECKOUT_PAYEE_NAME", "Anthem InfoTech Pvt Ltd"),
			Timeout:   getDuration("CHECKOUT_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@agencydesk.local"),
			AdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	SessionBackend string
	SessionCookie  string
	SessionTTL     time.Duration
	RedisURL       string
	RedisAddr      string
	RedisPassword  string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	MediaDir string

	AdminAPIEnabled bool
	AdminAddr       string
}

// Load reads .env when present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "336h"))
	if err != nil || ttl <= 0 {
		log.Printf("Invalid SESSION_TTL, using 14 days")
		ttl = 14 * 24 * time.Hour
	}

	adminEnabled, err := strconv.ParseBool(getEnv("ADMIN_API_ENABLED", "false"))
	if err != nil {
		log.Printf("Invalid ADMIN_API_ENABLED, admin API disabled")
		adminEnabled = false
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		smtpPort = 587
	}

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("APP_PORT", getEnv("PORT", "8080")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "storefront"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionCookie:  getEnv("SESSION_COOKIE", "sessionid"),
		SessionTTL:     ttl,
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: smtpPort,
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),

		MediaDir: getEnv("MEDIA_DIR", "./media"),

		AdminAPIEnabled: adminEnabled,
		AdminAddr:       getEnv("ADMIN_ADDR", "127.0.0.1:8081"),
	}
}

// DSN returns DATABASE_URL or builds one from the individual DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Flutterwave FlutterwaveConfig
	SMTP        SMTPConfig
	App         AppConfig
	Wallet      WalletConfig
	CORS        CORSConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// FlutterwaveConfig holds payment gateway credentials
type FlutterwaveConfig struct {
	PublicKey     string
	SecretKey     string
	WebhookSecret string
	Env           string
	BaseURL       string
}

// Enabled reports whether deposits through Flutterwave can be offered.
func (c FlutterwaveConfig) Enabled() bool {
	return c.PublicKey != "" && c.SecretKey != ""
}

// SMTPConfig holds the environment fallback for outgoing mail.
// Values stored in admin_settings take precedence.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AppConfig holds public application settings
type AppConfig struct {
	URL  string
	Name string
}

// WalletConfig holds wallet business rules
type WalletConfig struct {
	WithdrawalFeePercent decimal.Decimal
	MinWithdrawal        decimal.Decimal
	PendingDepositTTL    time.Duration
	ExpirySweepInterval  time.Duration
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "bpi"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		},
		Flutterwave: FlutterwaveConfig{
			PublicKey:     getEnv("FLUTTERWAVE_PUBLIC_KEY", ""),
			SecretKey:     getEnv("FLUTTERWAVE_SECRET_KEY", ""),
			WebhookSecret: getEnv("FLUTTERWAVE_WEBHOOK_SECRET", ""),
			Env:           getEnv("FLUTTERWAVE_ENV", "sandbox"),
			BaseURL:       getEnv("FLUTTERWAVE_BASE_URL", "https://api.flutterwave.com"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@bpi.local"),
		},
		App: AppConfig{
			URL:  strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
			Name: getEnv("APP_NAME", "BPI"),
		},
		Wallet: WalletConfig{
			WithdrawalFeePercent: getEnvAsDecimal("WITHDRAWAL_FEE_PERCENT", decimal.NewFromInt(1)),
			MinWithdrawal:        getEnvAsDecimal("MIN_WITHDRAWAL", decimal.NewFromInt(1000)),
			PendingDepositTTL:    getEnvAsPositiveDuration("PENDING_DEPOSIT_TTL", 24*time.Hour),
			ExpirySweepInterval:  getEnvAsPositiveDuration("DEPOSIT_EXPIRY_INTERVAL", 10*time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsPositiveDuration(key string, defaultValue time.Duration) time.Duration {
	if d := getEnvAsDuration(key, defaultValue); d > 0 {
		return d
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

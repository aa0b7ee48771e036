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
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	JWT      JWTConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	CacheSize          int
	CacheTTL           time.Duration
	DeliveryTopic      string // in-process topic for note delivery
}

type DatabaseConfig struct {
	Connection  string // full DSN, wins over the discrete fields when set
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type JWTConfig struct {
	Secret     string
	Audience   string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type StorageConfig struct {
	Driver     string // "local" or "s3"
	LocalDir   string
	PublicPath string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3Key      string
	S3Secret   string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.Connection != "" {
		return d.Connection
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3001"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3001"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			CacheSize:          getEnvAsInt("CACHE_SIZE", 256),
			CacheTTL:           getEnvAsDuration("CACHE_TTL", 30*time.Second),
			DeliveryTopic:      getEnv("NOTE_DELIVERY_TOPIC", "NOTE_DELIVERY"),
		},
		Database: DatabaseConfig{
			Connection:  getEnv("DB_CONNECTION_STRING", ""),
			Host:        getEnv("DATABASE_HOST", "localhost"),
			Port:        getEnv("DATABASE_PORT", "5432"),
			User:        getEnv("DATABASE_USERNAME", "postgres"),
			Password:    getEnv("DATABASE_PASSWORD", ""),
			Name:        getEnv("DATABASE_DATABASE", "recados"),
			SSLMode:     getEnv("DATABASE_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("DATABASE_AUTO_MIGRATE", false),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("EMAIL_HOST", ""),
			Port:     getEnvAsInt("EMAIL_PORT", 587),
			User:     getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
			From:     getEnv("EMAIL_FROM", "no-reply@recados.local"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Audience:   getEnv("JWT_TOKEN_AUDIENCE", "recados-api"),
			Issuer:     getEnv("JWT_TOKEN_ISSUER", "recados-api"),
			AccessTTL:  getEnvAsSeconds("JWT_TTL", time.Hour),
			RefreshTTL: getEnvAsSeconds("JWT_REFRESH_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:     getEnv("PICTURE_STORAGE", "local"),
			LocalDir:   getEnv("PICTURE_DIR", "./pictures"),
			PublicPath: getEnv("PICTURE_PUBLIC_PATH", "/pictures"),
			S3Bucket:   getEnv("S3_BUCKET", ""),
			S3Region:   getEnv("S3_REGION", "us-east-1"),
			S3Endpoint: getEnv("S3_ENDPOINT", ""),
			S3Key:      getEnv("S3_ACCESS_KEY_ID", ""),
			S3Secret:   getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// JWT TTLs are expressed in seconds in the environment.
func getEnvAsSeconds(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil && value > 0 {
		return time.Duration(value) * time.Second
	}
	return fallback
}

package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	LogLevel    string

	// Content store
	StoreDriver string // file | postgres
	DataFile    string

	// Database (postgres store driver)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Seed user
	AdminEmail    string
	AdminPassword string
	AdminNom      string
	AdminPrenom   string

	// Uploads
	UploadDriver   string // local | s3
	UploadDir      string
	UploadMaxBytes int64
	PublicBaseURL  string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string

	SentryDSN string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StoreDriver: getEnv("STORE_DRIVER", "file"),
		DataFile:    getEnv("DATA_FILE", "data/portfolio.json"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "portfolio"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "12h")),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@portfolio.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminNom:      getEnv("ADMIN_NOM", ""),
		AdminPrenom:   getEnv("ADMIN_PRENOM", ""),

		UploadDriver:   getEnv("UPLOAD_DRIVER", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: parseInt64(getEnv("UPLOAD_MAX_BYTES", "2097152")),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "/uploads"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 2 << 20
	}
	return n
}

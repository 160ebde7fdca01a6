package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress  string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	JWTSecret      string
	JWTExpiration  time.Duration
	GoogleAudience string

	// Object storage bucket for listing images and board files.
	StorageBucket   string
	MaxUploadSizeMB int64

	// Snapshot directory for the in-memory services.
	DataDir string

	// Local upload directory used when no bucket is configured.
	UploadDir string

	// Outbound mail (OTP delivery).
	SendGridAPIKey string
	MailFrom       string

	// Reservation sweeper.
	SweepInterval time.Duration

	CacheTTL time.Duration
}

func Load() *Config {
	// Best-effort .env load for local development.
	_ = godotenv.Load()

	return &Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_DB", "topic"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:  getDuration("JWT_EXPIRATION", 24*time.Hour),
		GoogleAudience: getEnv("GOOGLE_CLIENT_ID", ""),

		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		MaxUploadSizeMB: getInt64("MAX_UPLOAD_SIZE_MB", 10),

		DataDir:   getEnv("DATA_DIR", "./data"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "noreply@topic.app"),

		SweepInterval: getDuration("SWEEP_INTERVAL", time.Hour),

		CacheTTL: getDuration("CACHE_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

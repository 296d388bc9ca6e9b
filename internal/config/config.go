package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Chat     ChatConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GeoIPBaseURL     string
	LoginRecordTopic string
}

type ChatConfig struct {
	WebhookURL     string
	WebhookTimeout int // seconds
}

type StorageConfig struct {
	ProjectURL string
	Bucket     string
	ServiceKey string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "InvestChat"),
		},
		Keys: APIKeys{
			GeoIPBaseURL:     getEnv("GEOIP_BASE_URL", "http://ip-api.com/json"),
			LoginRecordTopic: getEnv("LOGIN_RECORD_TOPIC_NAME", "LOGIN_RECORDED"),
		},
		Chat: ChatConfig{
			WebhookURL:     getEnv("CHAT_WEBHOOK_URL", ""),
			WebhookTimeout: getEnvAsInt("CHAT_WEBHOOK_TIMEOUT", 120),
		},
		Storage: StorageConfig{
			ProjectURL: getEnv("SUPABASE_URL", ""),
			Bucket:     getEnv("SUPABASE_BUCKET", "chat-attachments"),
			ServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
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

package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	GinMode    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	UploadDir  string

	// Outbound WhatsApp-sending service.
	WhatsAppURL string

	// Web Push (VAPID) credentials.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	SweepInterval time.Duration
}

func Load() *Config {
	// .env is optional; deployments usually set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "crm"),
		DBPassword:      getEnv("DB_PASSWORD", "crm"),
		DBName:          getEnv("DB_NAME", "estate_crm"),
		JWTSecret:       getEnv("JWT_SECRET", "default-secret-key-change-me"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		WhatsAppURL:     getEnv("WHATSAPP_URL", "http://localhost:3001/send"),
		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:admin@example.com"),
		SweepInterval:   getDurationEnv("SWEEP_INTERVAL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

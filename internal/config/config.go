package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	DBPath           string
	SenderEmail      string
	HourlyEmailLimit int
	SMTPHost         string
	SMTPPort         int
	SMTPEmail        string
	SMTPPassword     string
	GeminiAPIKey     string
	GeminiModel      string
	StaticDir        string
	ChromeDisabled   bool
	FrontendURL      string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DBPath:           getEnv("DB_PATH", "./outreach.db"),
		SenderEmail:      getEnv("SENDER_EMAIL", "padilla@dapros.com"),
		HourlyEmailLimit: getEnvInt("HOURLY_EMAIL_LIMIT", 50),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPEmail:        getEnv("SMTP_EMAIL", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		StaticDir:        getEnv("STATIC_DIR", "./static"),
		ChromeDisabled:   getEnv("CHROME_DISABLED", "") == "true",
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

// HasSMTPCredentials reports whether a real mail transport can be used.
// Without credentials the orchestrator falls back to simulated sends.
func (c *Config) HasSMTPCredentials() bool {
	return c.SMTPEmail != "" && c.SMTPPassword != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}

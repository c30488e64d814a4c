package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Environment      string
	DatabaseURL      string
	JWTSecret        string
	SessionTTL       time.Duration
	VerificationTTL  time.Duration
	PasswordResetTTL time.Duration
	AllowOrigins     []string
	FrontendBaseURL  string
	LogstashTCPAddr  string
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:             getenv("PORT", "8080"),
		Environment:      getenv("ENVIRONMENT", "development"),
		DatabaseURL:      must("DATABASE_URL"),
		JWTSecret:        must("JWT_SECRET"),
		SessionTTL:       getduration("SESSION_TTL", 24*time.Hour),
		VerificationTTL:  getduration("VERIFICATION_TTL", 24*time.Hour),
		PasswordResetTTL: getduration("PASSWORD_RESET_TTL", 10*time.Minute),
		AllowOrigins:     splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		FrontendBaseURL:  getenv("FRONTEND_BASE_URL", "http://localhost:3000"),
		LogstashTCPAddr:  getenv("LOGSTASH_TCP_ADDR", ""),
		SMTPHost:         getenv("SMTP_HOST", ""),
		SMTPPort:         getenv("SMTP_PORT", ""),
		SMTPUsername:     getenv("SMTP_USERNAME", ""),
		SMTPPassword:     getenv("SMTP_PASSWORD", ""),
		SMTPFrom:         getenv("SMTP_FROM", ""),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getduration(k string, d time.Duration) time.Duration {
	raw := os.Getenv(k)
	if raw == "" {
		return d
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid duration for %s (%q), using default %s", k, raw, d)
		return d
	}
	return parsed
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}

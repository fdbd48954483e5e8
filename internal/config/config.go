package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	CDNUploadURL    string
	RedisAddr       string // empty: in-process storage only
	RequestTimeout  time.Duration
	UploadTimeout   time.Duration
	ShutdownTimeout time.Duration
	PaymentReturn   string
	PaymentCancel   string
}

// Load reads .env when present and falls back to real environment
// variables; a missing file is not an error.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	baseURL := getEnv("API_BASE_URL", "http://localhost:8081/api/v1")
	publicURL := getEnv("PUBLIC_URL", "http://localhost:8080")

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIBaseURL:      baseURL,
		CDNUploadURL:    getEnv("CDN_UPLOAD_URL", baseURL+"/images"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		UploadTimeout:   getDuration("UPLOAD_TIMEOUT", time.Minute),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		PaymentReturn:   getEnv("PAYMENT_RETURN_URL", publicURL+"/checkout/return"),
		PaymentCancel:   getEnv("PAYMENT_CANCEL_URL", publicURL+"/checkout/return?cancel=true"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}

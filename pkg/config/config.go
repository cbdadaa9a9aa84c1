package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Gemini   GeminiConfig
	Geocoder GeocoderConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type UploadConfig struct {
	Dir string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// Without a .env file, plain environment variables are used directly
	// (useful for Docker/K8s)

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "120"))
	geminiTimeout, _ := strconv.Atoi(getEnv("GEMINI_TIMEOUT", "120"))
	geocoderTimeout, _ := strconv.Atoi(getEnv("GEOCODER_TIMEOUT", "5"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_FOLDER", "uploads"),
		},
		Gemini: GeminiConfig{
			APIKey:  apiKey,
			Model:   getEnv("MODEL_NAME", "gemini-2.0-flash-exp"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Timeout: time.Duration(geminiTimeout) * time.Second,
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOCODER_USER_AGENT", "price_label_app"),
			Timeout:   time.Duration(geocoderTimeout) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

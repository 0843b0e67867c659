package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ProjectID      string
	Region         string
	LogLevel       string
	KMSKeyName     string
	VertexModel    string
	BrevoAPIKey    string
	BrevoBaseURL   string
	ProxyBaseURL   string
	ProxyTimeout   time.Duration
	SampleLimit    int
	SenderEmail    string
	SenderName     string
}

func New() *Config {
	return &Config{
		ProjectID:    os.Getenv("PROJECTID"),
		Region:       os.Getenv("REGION"),
		LogLevel:     os.Getenv("LOGLEVEL"),
		KMSKeyName:   os.Getenv("KMSKEYNAME"),
		VertexModel:  os.Getenv("VERTEXMODEL"),
		BrevoAPIKey:  os.Getenv("BREVOAPIKEY"),
		BrevoBaseURL: getEnvOr("BREVOBASEURL", "https://api.brevo.com/v3"),
		ProxyBaseURL: os.Getenv("PROXYBASEURL"),
		ProxyTimeout: getDuration("PROXYTIMEOUT", 30*time.Second),
		SampleLimit:  getInt("SAMPLELIMIT", 25),
		SenderEmail:  os.Getenv("SENDEREMAIL"),
		SenderName:   os.Getenv("SENDERNAME"),
	}
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Capacity        int
	StandardRate    float64
	LightRate       float64
	CurrencySymbol  string
	ReportFile      string
	Port            string
	Environment     string
	LogLevel        string
	LogFile         string
	OTelServiceName string
	OTelEndpoint    string
	OTelEnabled     bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Capacity:        envOrInt("PARKING_CAPACITY", 5),
		StandardRate:    envOrFloat("PARKING_RATE_STANDARD", 20),
		LightRate:       envOrFloat("PARKING_RATE_LIGHT", 10),
		CurrencySymbol:  envOr("PARKING_CURRENCY_SYMBOL", "₱"),
		ReportFile:      envOr("PARKING_REPORT_FILE", "ParkingReport.txt"),
		Port:            envOr("APP_PORT", "8080"),
		Environment:     envOr("APP_ENV", "development"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFile:         os.Getenv("LOG_FILE"),
		OTelServiceName: envOr("OTEL_SERVICE_NAME", "parking-ledger"),
		OTelEndpoint:    envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		OTelEnabled:     envOrBool("OTEL_ENABLED", false),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

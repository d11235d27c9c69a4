package envconfig

import (
	"os"
	"strconv"

	"bistro/pkg/logger"

	"github.com/joho/godotenv"
)

// DefaultVATRate is the flat tax rate applied to every order unless
// overridden through VAT_RATE at startup.
const DefaultVATRate = 0.21

// LoadEnvFile loads environment variables from the given file if it exists.
// Variables already set in the process environment win.
func LoadEnvFile(path string) error {
	return godotenv.Load(path)
}

// GetEnv returns the value of the environment variable or the fallback.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetLogLevel reads LOG_LEVEL and maps it to a logger level, defaulting to info.
func GetLogLevel() logger.LogLevel {
	switch GetEnv("LOG_LEVEL", "info") {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// GetVATRate reads VAT_RATE as a fraction (e.g. "0.21"). Invalid or missing
// values fall back to the default flat rate.
func GetVATRate() float64 {
	raw := GetEnv("VAT_RATE", "")
	if raw == "" {
		return DefaultVATRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate >= 1 {
		return DefaultVATRate
	}
	return rate
}

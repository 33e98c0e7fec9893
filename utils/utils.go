package utils

import (
	"os"
	"strconv"
	"time"
)

// Environment utilities
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ParseISO parses the ISO-8601 timestamps the store keeps as plain strings.
// Tolerates a trailing "Z" and a missing timezone; falls back to now so a
// mangled timestamp never breaks an elapsed-time computation.
func ParseISO(ts string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Now()
}

// FormatISO is the write-side counterpart of ParseISO.
func FormatISO(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.999999")
}

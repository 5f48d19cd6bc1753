package utils

import (
	"os"
	"strconv"
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
		LogError("Ignoring non-integer %s=%q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

// ParsePositiveID parses a path identifier. Anything that is not a base-10
// integer greater than zero is rejected.
func ParsePositiveID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

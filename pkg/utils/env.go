package utils

import "os"

// ParseWithFallback returns the value of envName, or fallback when it is unset or empty.
func ParseWithFallback(envName string, fallback string) string {
	if result := os.Getenv(envName); result != "" {
		return result
	}
	return fallback
}

package util

import (
	"os"
	"strconv"
	"strings"

	"github.com/replicate/buildgen/pkg/util/console"
)

// GetEnvOrDefault returns an environment variable or a default if either the environment variable
// does not exist or fails to parse using the specified conversionFunc function
func GetEnvOrDefault[T any](key string, defaultVal T, conversionFunc func(string) (T, error)) T {
	val, exists := os.LookupEnv(key)
	if exists {
		v, err := conversionFunc(val)
		if err == nil {
			return v
		} else {
			console.Warnf("Failed to convert env var %s to expected type. Continuing with default. Error: %v", key, err)
		}
	}
	return defaultVal
}

// ParseString is an identity conversion for GetEnvOrDefault.
func ParseString(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

// EnvBool is GetEnvOrDefault for booleans ("1", "true", "yes" are true).
func EnvBool(key string, defaultVal bool) bool {
	return GetEnvOrDefault(key, defaultVal, parseBool)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

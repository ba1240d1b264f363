package logger

import (
	"os"
	"strings"
)

// env reads LOG_* without going through config, which itself logs
func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envFlag treats 1/true/yes/on as set; blank gives def
func envFlag(key string, def bool) bool {
	switch strings.ToLower(env(key, "")) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

package env

import (
	"os"
	"strings"
)

// Get reads an unprefixed process variable such as LOG_FORMAT. Blank values
// fall back.
func Get(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

// Package env reads the few process variables consulted outside config.Load:
// platform-injected ones like PORT and DYNO, and logger settings needed before
// the config exists.
package env

import (
	"os"
	"strings"
)

// Get returns the first non-blank value among keys, or fallback.
func Get(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}

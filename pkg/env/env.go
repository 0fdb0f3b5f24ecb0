// Package env reads process environment values that sit outside the
// SHOPDESK-prefixed configuration, such as the log-format toggle consulted
// before the config layer is up.
package env

import (
	"os"
	"strings"
)

// Get returns the named variable's value, or fallback when it is unset or
// blank.
func Get(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// Package env reads process settings that live outside the envconfig tree,
// such as logger format and hosting platform variables.
package env

import (
	"os"
	"strings"
)

// First returns the first non-blank value among keys, or fallback when none is set.
func First(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}

// Get returns the value of key or fallback.
func Get(key, fallback string) string {
	return First(fallback, key)
}

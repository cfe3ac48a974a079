// Package env reads optional process settings that sit outside the envconfig
// struct, such as the log format picked before config is loaded.
package env

import (
	"os"
	"strings"
)

// Prefix is tried before the bare key.
const Prefix = "TALLER_"

// Get returns TALLER_<key>, then <key>, then fallback. Blank values count as
// unset.
func Get(key, fallback string) string {
	for _, candidate := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(candidate)); val != "" {
			return val
		}
	}
	return fallback
}

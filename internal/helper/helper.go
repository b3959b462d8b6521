package helper

import (
	"os"
	"strings"
)

// ResolveEnv substitutes values of the form "ENV:NAME" with the content of
// the environment variable NAME. Anything else passes through unchanged.
func ResolveEnv(in string) string {
	if strings.HasPrefix(in, "ENV:") {
		return os.Getenv(in[4:])
	}
	return in
}

func SetDefaultStringIfEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

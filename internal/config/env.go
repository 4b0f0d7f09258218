package config

import (
	"os"
	"strings"
)

// Environment variables recognized by the tool.
const (
	// EnvRaiseOnError enables strict extraction when set to a truthy
	// value. The --strict flag takes precedence over it.
	EnvRaiseOnError = "DATALAD_RUNTIME_RAISEONERROR"

	// EnvExtractor overrides the default extractor selection. The
	// --extractor flag takes precedence over it.
	EnvExtractor = "DATALAD_META_EXTRACTOR"

	// EnvNonInteractive forces non-interactive terminal behavior.
	EnvNonInteractive = "DATALAD_NON_INTERACTIVE"
)

// StrictFromEnv reports the strict-mode override from the environment.
// The second return value is false when the variable is unset.
func StrictFromEnv() (bool, bool) {
	raw, present := os.LookupEnv(EnvRaiseOnError)
	if !present {
		return false, false
	}
	return truthy(raw), true
}

// ExtractorFromEnv reports the extractor override from the environment.
// The second return value is false when the variable is unset or empty.
func ExtractorFromEnv() (string, bool) {
	raw := strings.TrimSpace(os.Getenv(EnvExtractor))
	return raw, raw != ""
}

// truthy interprets the common boolean spellings. Anything unrecognized
// counts as false.
func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

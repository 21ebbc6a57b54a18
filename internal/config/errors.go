package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages. Almost all inconsistencies are clamped by Normalize() instead of
// rejected here, so this list stays short.
var (
	// ErrNoListenAddr is returned when the listen address is empty.
	// There is no safe default interpretation of "listen nowhere".
	ErrNoListenAddr = errors.New("no listen address specified")

	// ErrConfigNotFound is returned when an explicitly specified
	// configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)

package config

import "errors"

var (
	// ErrConfigNotFound indicates the config file does not exist. Callers
	// downgrade this to a warning when the path was not explicitly supplied.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigMalformed indicates the config file exists but could not be parsed.
	ErrConfigMalformed = errors.New("configuration file malformed")
)

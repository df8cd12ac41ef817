package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig    = goerr.New("invalid configuration")
	ErrInvalidDuration  = goerr.New("invalid duration")
	ErrInvalidMode      = goerr.New("invalid pipeline mode")
	ErrInvalidBackend   = goerr.New("invalid backend")
	ErrMissingParameter = goerr.New("required parameter is missing")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	FieldKey      = "field"
	BackendKey    = "backend"
)

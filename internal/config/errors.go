package config

import "errors"

// Validation errors returned by [ClientConfig.validate] and
// [ServerConfig.validate] when required configuration groups are incomplete
// or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing base URL, token or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty path or an in-memory mirror).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid drain or retry settings.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidConnectivityConfigs indicates a non-positive probe interval.
	ErrInvalidConnectivityConfigs = errors.New("invalid connectivity configuration")
	// ErrInvalidTracingConfigs indicates an unknown exporter or a bad
	// sample rate.
	ErrInvalidTracingConfigs = errors.New("invalid tracing configuration")
	// ErrInvalidServerConfigs indicates a missing listen address or timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAuthConfigs indicates missing token signing settings.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
)

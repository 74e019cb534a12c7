package config

import (
	"fmt"
	"os"
	"time"
)

// ClientApp holds client-side process settings.
type ClientApp struct {
	// LogFile is the rotated log file path. Empty logs to stderr.
	LogFile string
	// LogLevel is a zerolog level name.
	LogLevel string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the remote authority.
	HTTPAddress string
	// Token is the bearer token sent with every request.
	Token string
	// RequestTimeout bounds a single outbound request.
	RequestTimeout time.Duration
}

// ClientDB contains local database settings for the client.
type ClientDB struct {
	// Path is the SQLite file backing the local mirror.
	Path string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync contains queue draining settings.
type ClientSync struct {
	Interval    time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	RetryPolicy string
	MaxBackoff  time.Duration
}

// ClientConnectivity contains reachability probe settings.
type ClientConnectivity struct {
	ProbeInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains process-level client settings.
	App ClientApp
	// Adapter contains remote authority address, token and timeout.
	Adapter ClientAdapter
	// Storage contains local mirror settings.
	Storage ClientStorage
	// Sync contains drain and retry settings.
	Sync ClientSync
	// Connectivity contains probe settings.
	Connectivity ClientConnectivity
	// Tracing contains exporter settings.
	Tracing Tracing
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	return getClientConfig(os.Args[1:])
}

func getClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := loadStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.ClientView()
	return clientCfg, clientCfg.validate()
}

// ClientView maps the structured config onto the client view.
func (cfg *StructuredConfig) ClientView() *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			LogFile:  cfg.App.LogFile,
			LogLevel: cfg.App.LogLevel,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			Token:          cfg.Adapter.Token,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{Path: cfg.Storage.Local.Path},
		},
		Sync: ClientSync{
			Interval:    cfg.Sync.Interval,
			MaxRetries:  cfg.Sync.MaxRetries,
			RetryDelay:  cfg.Sync.RetryDelay,
			RetryPolicy: cfg.Sync.RetryPolicy,
			MaxBackoff:  cfg.Sync.MaxBackoff,
		},
		Connectivity: ClientConnectivity{ProbeInterval: cfg.Connectivity.ProbeInterval},
		Tracing:      cfg.Tracing,
	}
}

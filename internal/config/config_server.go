package config

import (
	"fmt"
	"os"
	"time"
)

// ServerDB contains the authority's database settings.
type ServerDB struct {
	DSN string
}

// ServerStorage groups the authority's storage settings.
type ServerStorage struct {
	DB ServerDB
}

// ServerHTTP contains the authority's listener settings.
type ServerHTTP struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

// ServerAuth contains token issuing and verification settings.
type ServerAuth struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ServerConfig is the reference authority's view of [StructuredConfig].
type ServerConfig struct {
	LogLevel string
	Server   ServerHTTP
	Storage  ServerStorage
	Auth     ServerAuth
	Tracing  Tracing
}

// GetServerConfig builds and validates the authority config from the
// process environment, flags and JSON file.
func GetServerConfig() (*ServerConfig, error) {
	return getServerConfig(os.Args[1:])
}

func getServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := loadStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := cfg.ServerView()
	return serverCfg, serverCfg.validate()
}

// ServerView maps the structured config onto the authority view.
func (cfg *StructuredConfig) ServerView() *ServerConfig {
	return &ServerConfig{
		LogLevel: cfg.App.LogLevel,
		Server: ServerHTTP{
			HTTPAddress:    cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		Storage: ServerStorage{DB: ServerDB{DSN: cfg.Storage.DB.DSN}},
		Auth: ServerAuth{
			TokenSignKey:  cfg.Auth.TokenSignKey,
			TokenIssuer:   cfg.Auth.TokenIssuer,
			TokenDuration: cfg.Auth.TokenDuration,
		},
		Tracing: cfg.Tracing,
	}
}

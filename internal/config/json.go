package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the JSON file layout.
type StructuredJSONConfig struct {
	App struct {
		LogFile  string `json:"log_file"`
		LogLevel string `json:"log_level"`
	} `json:"app,omitempty"`

	Auth struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"auth,omitempty"`

	Storage struct {
		Local struct {
			Path string `json:"path"`
		} `json:"local,omitempty"`

		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		Token          string   `json:"token"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Sync struct {
		Interval    Duration `json:"interval"`
		MaxRetries  int      `json:"max_retries"`
		RetryDelay  Duration `json:"retry_delay"`
		RetryPolicy string   `json:"retry_policy"`
		MaxBackoff  Duration `json:"max_backoff"`
	} `json:"sync,omitempty"`

	Connectivity struct {
		ProbeInterval Duration `json:"probe_interval"`
	} `json:"connectivity,omitempty"`

	Tracing struct {
		Enabled      bool    `json:"enabled"`
		Exporter     string  `json:"exporter"`
		OTLPEndpoint string  `json:"otlp_endpoint"`
		SampleRate   float64 `json:"sample_rate"`
		Environment  string  `json:"environment"`
	} `json:"tracing,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			LogFile:  jsonCfg.App.LogFile,
			LogLevel: jsonCfg.App.LogLevel,
		},
		Auth: Auth{
			TokenSignKey:  jsonCfg.Auth.TokenSignKey,
			TokenIssuer:   jsonCfg.Auth.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.Auth.TokenDuration),
		},
		Storage: Storage{
			Local: Local{Path: jsonCfg.Storage.Local.Path},
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			Token:          jsonCfg.Adapter.Token,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Sync: Sync{
			Interval:    time.Duration(jsonCfg.Sync.Interval),
			MaxRetries:  jsonCfg.Sync.MaxRetries,
			RetryDelay:  time.Duration(jsonCfg.Sync.RetryDelay),
			RetryPolicy: jsonCfg.Sync.RetryPolicy,
			MaxBackoff:  time.Duration(jsonCfg.Sync.MaxBackoff),
		},
		Connectivity: Connectivity{
			ProbeInterval: time.Duration(jsonCfg.Connectivity.ProbeInterval),
		},
		Tracing: Tracing{
			Enabled:      jsonCfg.Tracing.Enabled,
			Exporter:     jsonCfg.Tracing.Exporter,
			OTLPEndpoint: jsonCfg.Tracing.OTLPEndpoint,
			SampleRate:   jsonCfg.Tracing.SampleRate,
			Environment:  jsonCfg.Tracing.Environment,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

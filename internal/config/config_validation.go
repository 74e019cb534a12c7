// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks the settings shared by both binaries. Binary-specific
// requirements live on [ClientConfig] and [ServerConfig].
func (cfg *StructuredConfig) validate() error {
	return cfg.Tracing.validate()
}

func (t Tracing) validate() error {
	switch t.Exporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if t.Enabled && t.OTLPEndpoint == "" {
			return fmt.Errorf("%w: otlp exporter needs an endpoint", ErrInvalidTracingConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown exporter %q", ErrInvalidTracingConfigs, t.Exporter)
	}

	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("%w: sample rate %v out of [0, 1]", ErrInvalidTracingConfigs, t.SampleRate)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.Path == "" || strings.Contains(cfg.Storage.DB.Path, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.Token == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.MaxRetries < 1 || cfg.Sync.RetryDelay <= 0 {
		return ErrInvalidSyncConfigs
	}

	switch cfg.Sync.RetryPolicy {
	case RetryPolicyFixed:
	case RetryPolicyExponential:
		if cfg.Sync.MaxBackoff < cfg.Sync.RetryDelay {
			return fmt.Errorf("%w: max backoff below retry delay", ErrInvalidSyncConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown retry policy %q", ErrInvalidSyncConfigs, cfg.Sync.RetryPolicy)
	}

	if cfg.Connectivity.ProbeInterval <= 0 {
		return ErrInvalidConnectivityConfigs
	}

	return cfg.Tracing.validate()
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Auth.TokenSignKey == "" || cfg.Auth.TokenDuration <= 0 {
		return ErrInvalidAuthConfigs
	}

	return cfg.Tracing.validate()
}

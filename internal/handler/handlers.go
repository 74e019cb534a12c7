package handler

import (
	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/handler/http"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.ServerHTTP, tracer *tracing.Tracer, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg, tracer, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}

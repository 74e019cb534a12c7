package http

import (
	"time"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
)

type Handler struct {
	services *service.Services
	tracer   *tracing.Tracer

	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.ServerHTTP, tracer *tracing.Tracer, logger *logger.Logger) *Handler {
	if tracer == nil {
		tracer = tracing.Noop()
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		tracer:         tracer,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}

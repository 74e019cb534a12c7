package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	healthPath     = "/api/v1/health"
	operationsPath = "/api/v1/operations"
	entitiesPath   = "/api/v1/entities/{entityType}"
)

// admission limits for authenticated traffic; excess requests get 429
const (
	maxInFlight        = 64
	maxBacklog         = 256
	backlogTimeout     = 5 * time.Second
	throttleRetryAfter = 2 * time.Second
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Get(healthPath, h.health)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(middleware.ThrottleWithOpts(middleware.ThrottleOpts{
			Limit:          maxInFlight,
			BacklogLimit:   maxBacklog,
			BacklogTimeout: backlogTimeout,
			RetryAfterFn: func(bool) time.Duration {
				return throttleRetryAfter
			},
		}))

		r.Post(operationsPath, h.applyOperation)
		r.Get(entitiesPath, h.listEntities)
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrUnknownEntityType:       http.StatusBadRequest,
	service.ErrNoOwnerID:               http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrVersionConflict:         http.StatusConflict,

	store.ErrNotFound:        http.StatusNotFound,
	store.ErrVersionConflict: http.StatusConflict,
	store.ErrInvalidRecord:   http.StatusBadRequest,
	store.ErrStorageFailure:  http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// publicMessage hides server-side failure details from callers.
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
	"github.com/MKhiriev/neuroplan-sync/internal/utils"
	"github.com/MKhiriev/neuroplan-sync/models"
)

func httptestRecorder(h http.HandlerFunc, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
}

// ---- getTokenFromAuthHeader ----

func TestGetTokenFromAuthHeader_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{name: "valid Bearer token", header: "Bearer device-token", wantToken: "device-token"},
		{name: "missing token part", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty header", header: "", wantErr: ErrInvalidAuthorizationHeader},
		{name: "only spaces", header: " ", wantErr: ErrEmptyToken},
		{name: "extra parts, second part is used", header: "Bearer token extra", wantToken: "token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- auth ----

func TestAuth_Middleware_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		parseErr   error
		parsed     bool
		wantStatus int
		wantOwner  int64
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "no token part", header: "BearerOnly", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", parsed: true, wantStatus: http.StatusOK, wantOwner: 42},
		{name: "rejected token", header: "Bearer bad", parsed: true, parseErr: service.ErrTokenIsExpiredOrInvalid, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newTestHandler(t)
			if tt.parsed {
				th.authSvc.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(models.Token{OwnerID: 42}, tt.parseErr)
			}

			var owner int64
			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				owner, _ = utils.GetOwnerIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			th.auth(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, nextCalled)
			assert.Equal(t, tt.wantOwner, owner)
		})
	}
}

func TestAuth_RejectionDoesNotLeakParseError(t *testing.T) {
	th := newTestHandler(t)
	th.authSvc.EXPECT().ParseToken(gomock.Any(), "bad").Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()
	th.auth(okHandler(http.StatusOK)).ServeHTTP(rr, req)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, http.StatusText(http.StatusUnauthorized), body.Error)
}

// ---- withTraceID ----

func TestWithTraceID_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		requestTraceID string
	}{
		{name: "trace ID from request header is reused", requestTraceID: "my-custom-trace-id"},
		{name: "UUID string as incoming trace ID", requestTraceID: "550e8400-e29b-41d4-a716-446655440000"},
		{name: "no trace ID, noop tracer generates UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{tracer: tracing.Noop(), logger: logger.Nop()}

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestTraceID != "" {
				req.Header.Set(traceIDHeader, tt.requestTraceID)
			}
			rr := httptest.NewRecorder()
			h.withTraceID(okHandler(http.StatusTeapot)).ServeHTTP(rr, req)

			got := rr.Header().Get(traceIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, http.StatusTeapot, rr.Code)
			if tt.requestTraceID != "" {
				assert.Equal(t, tt.requestTraceID, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestWithTraceID_UsesSpanTraceID(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	h := &Handler{tracer: tracing.NewWithExporter(exporter), logger: logger.Nop()}

	rr := httptest.NewRecorder()
	h.withTraceID(okHandler(http.StatusOK)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/health", spans[0].Name)
	assert.Equal(t, spans[0].SpanContext.TraceID().String(), rr.Header().Get(traceIDHeader))
}

func TestWithTraceID_TagsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{tracer: tracing.Noop(), logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(traceIDHeader, "trace-42")
	h.withTraceID(next).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-42", entry["trace_id"])
}

// ---- withLogging ----

func TestWithLogging_RecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	h := &Handler{logger: logger.Nop()}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("hello"))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/operations", nil)
	req = req.WithContext(l.WithContext(context.Background()))
	rr := httptest.NewRecorder()
	h.withLogging(next).ServeHTTP(rr, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, http.MethodPost, entry["method"])
	assert.Equal(t, float64(http.StatusAccepted), entry["status"])
	assert.Equal(t, float64(5), entry["size"])
	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestWithLogging_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	h := &Handler{logger: logger.Nop()}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(l.WithContext(context.Background()))
	h.withLogging(next).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}

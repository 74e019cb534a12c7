package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/handler"
	myHTTP "github.com/MKhiriev/neuroplan-sync/internal/handler/http"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/mock"
	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
)

func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNewServer_NoHandlers(t *testing.T) {
	_, err := NewServer(&handler.Handlers{}, config.ServerHTTP{HTTPAddress: ":0"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)

	_, err = NewServer(nil, config.ServerHTTP{}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	s := newHTTPServer(http.NotFoundHandler(), config.ServerHTTP{HTTPAddress: ":1", RequestTimeout: 3 * time.Second}, logger.Nop())

	assert.Equal(t, ":1", s.server.Addr)
	assert.Equal(t, 3*time.Second, s.server.ReadTimeout)
	assert.Equal(t, 6*time.Second, s.server.WriteTimeout)
	assert.Equal(t, readHeaderTimeout, s.server.ReadHeaderTimeout)
}

func TestServer_ServesUntilContextDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	appInfo := mock.NewMockAppInfoService(ctrl)
	appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("test").AnyTimes()

	cfg := config.ServerHTTP{HTTPAddress: freeAddress(t), RequestTimeout: time.Second}
	h := myHTTP.NewHandler(&service.Services{AppInfoService: appInfo}, cfg, tracing.Noop(), logger.Nop())

	srv, err := NewServer(&handler.Handlers{HTTP: h}, cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.(*server).run(ctx)
		close(done)
	}()

	url := "http://" + cfg.HTTPAddress + "/api/v1/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

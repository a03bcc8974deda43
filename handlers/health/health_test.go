package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct {
	err error
}

func (p *stubProber) Head(ctx context.Context, rawURL string) error {
	return p.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestHandleHealthCheckHealthy(t *testing.T) {
	handler := NewHandler(&stubProber{}, "https://www.trident.dev/blog", testLogger())

	rec := httptest.NewRecorder()
	handler.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Services["upstream_blog"])
}

func TestHandleHealthCheckUpstreamDown(t *testing.T) {
	handler := NewHandler(&stubProber{err: errors.New("connection refused")}, "https://www.trident.dev/blog", testLogger())

	rec := httptest.NewRecorder()
	handler.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status.Status)
	assert.Contains(t, status.Services["upstream_blog"], "unhealthy")
}

func TestHandleLivenessCheck(t *testing.T) {
	handler := NewHandler(&stubProber{err: errors.New("down")}, "https://www.trident.dev/blog", testLogger())

	rec := httptest.NewRecorder()
	handler.HandleLivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	// Liveness never depends on the upstream site.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadinessCheckNotReady(t *testing.T) {
	handler := NewHandler(&stubProber{err: errors.New("down")}, "https://www.trident.dev/blog", testLogger())

	rec := httptest.NewRecorder()
	handler.HandleReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleReadinessCheckReady(t *testing.T) {
	handler := NewHandler(&stubProber{}, "https://www.trident.dev/blog", testLogger())

	rec := httptest.NewRecorder()
	handler.HandleReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

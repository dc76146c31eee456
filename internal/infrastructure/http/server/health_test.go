package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

// mockHealthChecker implements HealthChecker for testing
type mockHealthChecker struct {
	healthy bool
}

func (m *mockHealthChecker) HealthCheck(ctx context.Context) bool {
	return m.healthy
}

func serveHealth(t *testing.T, checkers ...NamedChecker) (int, HealthResponse) {
	t.Helper()

	handler := NewHealthHandler(checkers, zerolog.Nop())

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/health")

	handler.Handle(&ctx)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
	return ctx.Response.StatusCode(), response
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	code, response := serveHealth(t,
		NamedChecker{Name: "database", Checker: &mockHealthChecker{healthy: true}},
		NamedChecker{Name: "poller", Checker: &mockHealthChecker{healthy: true}},
	)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusHealthy, response.Status)
	assert.Len(t, response.Components, 2)
}

func TestHealthHandler_Degraded(t *testing.T) {
	code, response := serveHealth(t,
		NamedChecker{Name: "database", Checker: &mockHealthChecker{healthy: true}},
		NamedChecker{Name: "poller", Checker: &mockHealthChecker{healthy: false}},
	)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusDegraded, response.Status)
	assert.Equal(t, "poller is not healthy", response.Components[1].Message)
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	code, response := serveHealth(t,
		NamedChecker{Name: "database", Checker: &mockHealthChecker{healthy: false}},
	)

	assert.Equal(t, fasthttp.StatusServiceUnavailable, code)
	assert.Equal(t, HealthStatusUnhealthy, response.Status)
}

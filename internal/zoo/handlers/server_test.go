package handlers

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gartstein/zoo/internal/zoo/auth"
	"github.com/gartstein/zoo/internal/zoo/controller"
	"github.com/gartstein/zoo/internal/zoo/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	return lis.Addr().(*net.TCPAddr).Port
}

// emptyHandler has no services behind it; only routes that never reach
// them are exercised.
func emptyHandler(t *testing.T) *Handler {
	services := controller.NewServices(controller.Dependencies{})
	return NewHandler(services, controller.NewCatalog(services, nil, "", nil), zaptest.NewLogger(t))
}

func TestServer_RegisterHTTPGateway(t *testing.T) {
	logger := zaptest.NewLogger(t)
	s := NewServer(50051, 8080, logger)

	recorder := metrics.NewRecorder()
	recorder.Observe(context.Background(), "species.create", true, time.Millisecond)
	require.NoError(t, s.RegisterHTTPGateway(emptyHandler(t), "secret", recorder.Handler()))

	require.NotNil(t, s.httpServer.Handler)
	assert.Equal(t, s.httpEndpoint, s.httpServer.Addr)

	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"SERVING"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `zoo_operations_total{operation="species.create",status="success"} 1`)

	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/species", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "writes need a token when a secret is set")
}

func TestServer_AuthorizedWrite(t *testing.T) {
	s := NewServer(0, 0, zaptest.NewLogger(t))
	require.NoError(t, s.RegisterHTTPGateway(emptyHandler(t), "secret", nil))

	token, err := auth.GenerateToken("keeper", "secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sections/keepers/records/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, "the token is accepted and the unknown section rejected")
}

func TestServer_StartStop(t *testing.T) {
	logger := zaptest.NewLogger(t)
	s := NewServer(freePort(t), freePort(t), logger, grpc.Creds(insecure.NewCredentials()))
	require.NoError(t, s.RegisterHTTPGateway(emptyHandler(t), "", nil))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	// Give the servers a moment to start.
	time.Sleep(200 * time.Millisecond)

	conn, err := grpc.NewClient("127.0.0.1"+s.grpcEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	_ = conn.Close()

	httpResp, err := http.Get("http://127.0.0.1" + s.httpEndpoint + "/healthz")
	require.NoError(t, err)
	_ = httpResp.Body.Close()
	assert.Equal(t, http.StatusOK, httpResp.StatusCode)

	s.Stop()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for server to stop")
	}

	rec := httptest.NewRecorder()
	s.healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	lis, err := net.Listen("tcp", s.grpcEndpoint)
	require.NoError(t, err, "gRPC port is released after shutdown")
	_ = lis.Close()
}

func TestServer_Endpoints(t *testing.T) {
	s := NewServer(9090, 8080, zaptest.NewLogger(t))
	assert.Equal(t, ":9090", s.grpcEndpoint)
	assert.Equal(t, ":"+strconv.Itoa(8080), s.httpEndpoint)
}

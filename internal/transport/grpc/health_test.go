package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/abgdnv/xmlcatalog/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type MockProbe struct {
	mock.Mock
}

func (m *MockProbe) Check(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func startHealthServer(t *testing.T, hs *HealthServer) healthpb.HealthClient {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	lis := bufconn.Listen(1 << 20)
	srv := server.NewGRPCServer(logger, false, hs.Register)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func Test_HealthServer_Refresh(t *testing.T) {
	testCases := []struct {
		name          string
		probeError    error
		expectedState healthpb.HealthCheckResponse_ServingStatus
	}{
		{
			name:          "catalog readable",
			expectedState: healthpb.HealthCheckResponse_SERVING,
		},
		{
			name:          "catalog unavailable",
			probeError:    errors.New("no such file"),
			expectedState: healthpb.HealthCheckResponse_NOT_SERVING,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			probe := new(MockProbe)
			probe.On("Check", mock.Anything).Return(tc.probeError)
			hs := NewHealthServer(probe, time.Hour, slog.New(slog.NewJSONHandler(io.Discard, nil)))
			client := startHealthServer(t, hs)

			// when
			state := hs.Refresh(context.Background())

			// then
			assert.Equal(t, tc.expectedState, state)
			for _, name := range []string{"", CatalogServiceName} {
				resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: name})
				require.NoError(t, err)
				assert.Equal(t, tc.expectedState, resp.GetStatus(), "service %q", name)
			}
			probe.AssertExpectations(t)
		})
	}
}

func Test_HealthServer_StartsNotServing(t *testing.T) {
	hs := NewHealthServer(ProbeFunc(func(context.Context) error { return nil }), time.Hour, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	client := startHealthServer(t, hs)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: CatalogServiceName})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func Test_HealthServer_RunFlipsStatus(t *testing.T) {
	// given
	probe := ProbeFunc(func(context.Context) error { return nil })
	hs := NewHealthServer(probe, 10*time.Millisecond, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	client := startHealthServer(t, hs)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// when
	go func() { done <- hs.Run(ctx) }()

	// then
	assert.Eventually(t, func() bool {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: CatalogServiceName})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: CatalogServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

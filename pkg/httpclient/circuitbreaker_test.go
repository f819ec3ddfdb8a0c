package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(t *testing.T, name string) (*Client, CircuitBreakerConfig) {
	t.Helper()
	cfg := Config{
		Timeout:      time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	}
	cbCfg := CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	}
	return New(cfg), cbCfg
}

func TestCircuitBreakerClient_SuccessStaysClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, cbCfg := newTestBreaker(t, "inventory-success")
	cb := NewCircuitBreakerClient(client, cbCfg, slog.Default())

	resp, err := cb.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreakerClient_TripsOnServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, cbCfg := newTestBreaker(t, "inventory-trip")
	cb := NewCircuitBreakerClient(client, cbCfg, slog.Default())

	for i := 0; i < 3; i++ {
		_, err := cb.Get(context.Background(), srv.URL)
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestCircuitBreakerClient_FallbackWhenOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, cbCfg := newTestBreaker(t, "inventory-fallback")

	var fallbackCalls atomic.Int32
	cb := NewCircuitBreakerClient(client, cbCfg, slog.Default()).WithFallback(
		func(ctx context.Context, err error) (*http.Response, error) {
			fallbackCalls.Add(1)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"data":{"exists":true}}`)),
				Header:     http.Header{"Content-Type": []string{"application/json"}},
			}, nil
		})

	// Exactly MinRequests failures trip the breaker without the
	// fallback firing along the way.
	for i := 0; i < 2; i++ {
		_, _ = cb.Get(context.Background(), srv.URL)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())
	require.Equal(t, int32(0), fallbackCalls.Load())

	resp, err := cb.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), fallbackCalls.Load())
}

func TestParseResponseError_StructuredBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"code":"NOT_FOUND","message":"Item not found"}}`)),
	}

	err := ParseResponseError(resp, "inventory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Item not found")
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusBadGateway,
		Body:       io.NopCloser(strings.NewReader("bad gateway")),
	}

	err := ParseResponseError(resp, "inventory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

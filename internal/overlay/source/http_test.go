package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"traveled": 42.5, "today": 100}`))
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, time.Second)

	raw, err := s.GetCurrentTripMetrics(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 42.5, raw.Traveled, 1e-9)
	assert.InDelta(t, 100.0, raw.Today, 1e-9)
}

func TestHTTPSourceNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, time.Second)

	_, err := s.GetCurrentTripMetrics(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPSourceMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"traveled": "not a number"}`))
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, time.Second)

	_, err := s.GetCurrentTripMetrics(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPSourceTimeout(t *testing.T) {
	block := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	s := NewHTTPSource(srv.URL, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := s.GetCurrentTripMetrics(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchTimeout)
}

func TestHTTPSourceConnectionRefused(t *testing.T) {
	// Reserve a port, then close it so nothing is listening.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := NewHTTPSource(url, time.Second)

	_, err := s.GetCurrentTripMetrics(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, errors.Is(err, ErrFetchTimeout))
}

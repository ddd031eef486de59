package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPSource polls a REST endpoint exposing the current trip telemetry.
type HTTPSource struct {
	endpoint string
	client   *http.Client
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates a polling source for the given metrics URL.
// The per-request deadline comes from the caller's context; timeout here is
// the transport-level ceiling.
func NewHTTPSource(endpoint string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// GetCurrentTripMetrics fetches and decodes the latest telemetry.
func (s *HTTPSource) GetCurrentTripMetrics(ctx context.Context) (Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return Raw{}, fmt.Errorf("building metrics request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Raw{}, fmt.Errorf("%w: %v", ErrFetchTimeout, err)
		}
		return Raw{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Raw{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw Raw
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Raw{}, fmt.Errorf("%w: decoding payload: %v", ErrUnavailable, err)
	}

	return raw, nil
}

package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// DefaultReadyTimeout is the default time to wait for a server to report ready.
const DefaultReadyTimeout = 10 * time.Second

// ErrReadyTimeout is returned when a server doesn't become ready in time.
var ErrReadyTimeout = errors.New("readiness timeout")

// WaitForReady polls url until it answers 200 or the timeout elapses.
func WaitForReady(ctx context.Context, t *testing.T, client *http.Client, url string, timeout time.Duration) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ErrReadyTimeout
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := client.Do(req)
			if err != nil {
				t.Logf("readiness probe %s: %v", url, err)
				continue
			}
			_ = resp.Body.Close()

			t.Logf("readiness probe %s: %d", url, resp.StatusCode)
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
	}
}

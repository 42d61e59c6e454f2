package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/frostline-io/frostline/internal/platform"
)

// DefaultFetchTimeout bounds a single artifact fetch. The remote source is
// the only collaborator that can hang indefinitely, so the timeout lives
// here rather than on the whole run.
const DefaultFetchTimeout = 30 * time.Second

// HTTPFetcher fetches artifact bytes over plain HTTP GET.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher builds a fetcher with a per-request timeout. A zero
// timeout falls back to DefaultFetchTimeout.
func NewHTTPFetcher(client *http.Client, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{client: client, timeout: timeout}
}

// Fetch retrieves the bytes behind url, honoring the fetcher's timeout.
// Non-2xx statuses and deadline expiry surface as errors; deadline expiry
// maps onto the timeout sentinel so callers can classify it.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, platform.Timeout("fetch", url, err)
		}
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, platform.NotFound("fetch", url)
		}
		return nil, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, platform.Timeout("fetch", url, err)
		}
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	return data, nil
}

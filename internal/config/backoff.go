package config

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

const (
	BASE_BACKOFF   = 1 * time.Second
	MAX_BACKOFF    = 2 * time.Minute
	BACKOFF_FACTOR = 2.0
	JITTER_FACTOR  = 0.5
)

// DoWithBackoff performs the request, retrying transport errors and 5xx
// responses with jittered exponential backoff. It gives up after maxRetries
// additional attempts or when the context is cancelled, whichever comes
// first. A maxRetries of zero or below retries until the context ends.
func DoWithBackoff(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	var lastErr error
	delay := BASE_BACKOFF

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.WithContext(ctx))
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
			resp.Body.Close()
		}

		if maxRetries > 0 && attempt >= maxRetries {
			return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(jitteredDelay(delay)):
		}

		delay = nextBackoffDelay(delay)
	}
}

func jitteredDelay(delay time.Duration) time.Duration {
	jitter := time.Duration(rand.Float64() * float64(delay) * JITTER_FACTOR)
	delay += jitter
	if delay > MAX_BACKOFF {
		delay = MAX_BACKOFF
	}
	return delay
}

func nextBackoffDelay(delay time.Duration) time.Duration {
	delay = time.Duration(float64(delay) * BACKOFF_FACTOR)
	if delay >= MAX_BACKOFF {
		delay = MAX_BACKOFF
	}
	return delay
}

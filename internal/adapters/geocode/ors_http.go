package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// retryPolicy bounds how often and how patiently a request is retried.
type retryPolicy struct {
	attempts int
	backoff  time.Duration
	// maxWait caps both exponential backoff and server supplied Retry-After.
	maxWait time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{attempts: 4, backoff: 200 * time.Millisecond, maxWait: 5 * time.Second}
}

type statusError struct {
	code       int
	body       string
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ors status %d: %s", e.code, e.body)
}

func (o *ORSGeocoder) get(ctx context.Context, endpoint string, query map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	return req, nil
}

// send performs one request and turns 4xx/5xx answers into *statusError.
func (o *ORSGeocoder) send(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	se := &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		se.retryAfter = time.Duration(secs) * time.Second
	}
	return nil, se
}

// sendWithRetry rebuilds and resends the request on throttling, gateway
// failures and network errors until the policy is exhausted or ctx ends.
func (o *ORSGeocoder) sendWithRetry(
	ctx context.Context,
	build func() (*http.Request, error),
) (*http.Response, error) {
	wait := o.retry.backoff

	for attempt := 1; ; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := o.send(req)
		if err == nil {
			return resp, nil
		}

		delay, ok := retryDelay(err, wait)
		if !ok || attempt >= o.retry.attempts {
			return nil, err
		}
		if delay > o.retry.maxWait {
			delay = o.retry.maxWait
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		wait *= 2
	}
}

// retryDelay reports whether err is transient and how long to wait first.
func retryDelay(err error, backoff time.Duration) (time.Duration, bool) {
	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusTooManyRequests:
			if se.retryAfter > backoff {
				return se.retryAfter, true
			}
			return backoff, true
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return backoff, true
		}
		return 0, false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return backoff, true
	}
	return 0, false
}

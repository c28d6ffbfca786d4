package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Header names shared by both upstream APIs.
const (
	HeaderAPIKey  = "x-rapidapi-key"
	HeaderAPIHost = "x-rapidapi-host"
)

// NewHTTPClient returns the client used for every upstream call.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NewLimiter returns a limiter allowing one request per interval, or nil
// when interval is zero and requests are unpaced.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Pace blocks until limiter admits one request. A nil limiter never blocks.
func Pace(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// CheckResponse classifies a non-2xx response. 429 is ErrRateLimited so the
// credential pool rotates; any other failure status is ErrUpstream. At most
// 4KiB of the body is quoted in the error.
func CheckResponse(component, operation string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := resp.Status
	if text := strings.TrimSpace(string(body)); text != "" {
		detail = fmt.Sprintf("%s: %s", resp.Status, text)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return Wrap(ErrRateLimited, component, operation, detail, nil)
	}
	return Wrap(ErrUpstream, component, operation, detail, nil)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthExhausted  = errors.New("credentials exhausted")
	ErrUpstream       = errors.New("upstream failure")
	ErrDecode         = fmt.Errorf("decode failure: %w", ErrUpstream)
	ErrPersistence    = errors.New("persistence failure")
	ErrNoMoreData     = errors.New("no more data")
	ErrRateLimited    = errors.New("rate limited")
	ErrCollectionBusy = errors.New("collection busy")
	ErrValidation     = errors.New("validation error")
	ErrConfiguration  = errors.New("configuration error")
	ErrNotFound       = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUpstream
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Label maps an error to the stable outcome label reported to operators and
// recorded in metrics. A nil error is "ok".
func Label(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoMoreData):
		return "no_more_data"
	case errors.Is(err, ErrAuthExhausted):
		return "auth_exhausted"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrDecode):
		return "decode_failure"
	case errors.Is(err, ErrUpstream):
		return "upstream_failure"
	case errors.Is(err, ErrPersistence):
		return "persistence_failure"
	case errors.Is(err, ErrCollectionBusy):
		return "collection_busy"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

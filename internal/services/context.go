package services

import "context"

type contextKey string

const (
	collectionIDKey contextKey = "collection_id"
	purposeKey      contextKey = "purpose"
	runIDKey        contextKey = "run_id"
)

// WithCollectionID annotates context with the collection identifier.
func WithCollectionID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, collectionIDKey, id)
}

// CollectionIDFromContext extracts the collection identifier if present.
func CollectionIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(collectionIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithPurpose annotates context with the credential purpose driving the run.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFromContext returns the purpose if present.
func PurposeFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(purposeKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with a correlation identifier for one run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

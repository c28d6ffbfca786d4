package logging

import (
	"context"
	"log/slog"

	"prospector/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCollectionID is the standardized structured logging key for collection identifiers.
	FieldCollectionID = "collection_id"
	// FieldPurpose is the standardized structured logging key for credential purposes.
	FieldPurpose = "purpose"
	// FieldRunID is the standardized structured logging key for run correlation identifiers.
	FieldRunID = "run_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.CollectionIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldCollectionID, id))
	}
	if purpose, ok := services.PurposeFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPurpose, purpose))
	}
	if rid, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}

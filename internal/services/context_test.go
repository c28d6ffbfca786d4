package services_test

import (
	"context"
	"testing"

	"prospector/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithCollectionID(ctx, 42)
	ctx = services.WithPurpose(ctx, "leads")
	ctx = services.WithRunID(ctx, "run-123")

	if id, ok := services.CollectionIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected collection id: %v %v", id, ok)
	}
	if purpose, ok := services.PurposeFromContext(ctx); !ok || purpose != "leads" {
		t.Fatalf("unexpected purpose: %v %v", purpose, ok)
	}
	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
}

func TestPurposeBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPurpose(ctx, "")
	if _, ok := services.PurposeFromContext(ctx); ok {
		t.Fatal("expected no purpose value")
	}
}

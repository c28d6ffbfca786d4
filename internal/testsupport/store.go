package testsupport

import (
	"context"
	"fmt"
	"testing"

	"prospector/internal/config"
	"prospector/internal/credentials"
	"prospector/internal/filter"
	"prospector/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SampleFilter returns a valid filter with no headcount constraint.
func SampleFilter() filter.Spec {
	return filter.Spec{PersonTitle: "CTO", Location: "Berlin", Industry: "Software"}
}

// MustCreateCollection creates a collection using SampleFilter.
func MustCreateCollection(t testing.TB, st *store.Store, name string) *store.Collection {
	t.Helper()

	c, err := st.CreateCollection(context.Background(), name, SampleFilter())
	if err != nil {
		t.Fatalf("store.CreateCollection: %v", err)
	}
	return c
}

// MustAddCredential stores an API key.
func MustAddCredential(t testing.TB, st *store.Store, key string, scope credentials.Scope) {
	t.Helper()

	if _, err := st.AddCredential(context.Background(), key, scope); err != nil {
		t.Fatalf("store.AddCredential: %v", err)
	}
}

// MakeRecords builds n records with external ids prefix-1 .. prefix-n and a
// company website so they are eligible for verification.
func MakeRecords(prefix string, n int) []store.Record {
	out := make([]store.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, store.Record{
			ExternalID:          fmt.Sprintf("%s-%d", prefix, i),
			FirstName:           "Jane",
			LastName:            fmt.Sprintf("Doe%d", i),
			FullName:            fmt.Sprintf("Jane Doe%d", i),
			Title:               "CTO",
			Country:             "Germany",
			OrganizationName:    "Example",
			OrganizationWebsite: "https://www.example.com",
		})
	}
	return out
}

// MustSeedRecords stores records as one ingested page ending at next.
func MustSeedRecords(t testing.TB, st *store.Store, collectionID int64, records []store.Record, next string) {
	t.Helper()

	if _, err := st.SavePage(context.Background(), collectionID, records, next); err != nil {
		t.Fatalf("store.SavePage: %v", err)
	}
}

package testsupport

import (
	"context"
	"testing"

	"recode/internal/config"
	"recode/internal/logging"
	"recode/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedEntry inserts a single entry for tests using the provided store.
func SeedEntry(t testing.TB, store *queue.Store, entry queue.Entry) {
	t.Helper()

	if _, err := store.InsertBatch(context.Background(), []queue.Entry{entry}); err != nil {
		t.Fatalf("store.InsertBatch: %v", err)
	}
}

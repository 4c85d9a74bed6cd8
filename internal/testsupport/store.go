package testsupport

import (
	"context"
	"testing"

	"mediabatch/internal/config"
	"mediabatch/internal/journal"
)

// MustOpenJournal opens the journal configured by cfg and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(context.Background(), cfg.JournalPath())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

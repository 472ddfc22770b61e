// Package testutil holds shared test helpers.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/internal/store"
)

// MemAdapter is an in-memory persistence adapter that records every save
// so tests can assert how often and with what payload the store wrote.
type MemAdapter struct {
	mu       sync.Mutex
	data     model.AppData
	saves    int
	failSave bool
}

// NewMemAdapter returns an empty in-memory adapter.
func NewMemAdapter() *MemAdapter {
	a := &MemAdapter{}
	a.data.Normalize()
	return a
}

// GetData implements persist.Adapter.
func (a *MemAdapter) GetData(_ context.Context) (model.AppData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data.Clone(), nil
}

// SaveData implements persist.Adapter.
func (a *MemAdapter) SaveData(_ context.Context, data model.AppData) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failSave {
		return fmt.Errorf("save disabled")
	}
	a.data = data.Clone()
	a.saves++
	return nil
}

// Saves reports how many successful saves have happened.
func (a *MemAdapter) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

// Saved returns the last successfully saved snapshot.
func (a *MemAdapter) Saved() model.AppData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data.Clone()
}

// SetFailSave makes subsequent saves fail when on is true.
func (a *MemAdapter) SetFailSave(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failSave = on
}

// Seed replaces the adapter's snapshot directly, bypassing save counting.
func (a *MemAdapter) Seed(data model.AppData) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = data.Clone()
	a.data.Normalize()
}

// NewTestStore creates a store over a fresh MemAdapter with a short
// debounce window and a fixed clock, loaded and ready for mutations.
func NewTestStore(t *testing.T, opts ...store.Option) (*store.Store, *MemAdapter) {
	t.Helper()

	adapter := NewMemAdapter()
	base := []store.Option{
		store.WithDebounce(10 * time.Millisecond),
		store.WithClock(func() time.Time {
			return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
		}),
	}
	s := store.New(adapter, append(base, opts...)...)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("loading test store: %v", err)
	}
	return s, adapter
}

// WaitForSaves polls until the adapter has recorded at least n saves or
// the timeout elapses.
func WaitForSaves(t *testing.T, a *MemAdapter, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if a.Saves() >= n {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d saves, saw %d", n, a.Saves())
}

// Package store holds the in-memory application state and is its sole
// owner for the lifetime of the process. Mutations produce a fresh
// snapshot, publish it to subscribers synchronously, and schedule a
// debounced write through the persistence adapter. Persistence is
// optimistic: a failed save surfaces through Err but never rolls back
// in-memory state.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/internal/persist"
)

// saveTimeout bounds a single adapter save so a hung backend cannot pin
// the background writer forever.
const saveTimeout = 30 * time.Second

// DefaultDebounce is the trailing-edge debounce window for persistence.
// Every mutation inside the window resets the timer, so a burst of rapid
// edits results in a single write carrying the final state.
const DefaultDebounce = time.Second

// Option configures a Store.
type Option func(*Store)

// WithDebounce overrides the persistence debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithClock overrides the wall clock used for mutation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger overrides the logger used for persistence failures.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) { s.log = log }
}

type subscription struct {
	id int
	fn func(model.AppData)
}

// Store is the reactive in-memory container for tasks, projects, areas,
// and settings.
type Store struct {
	adapter  persist.Adapter
	log      *logrus.Logger
	debounce time.Duration
	now      func() time.Time

	mu      sync.Mutex
	data    model.AppData
	err     error
	timer   *time.Timer
	subs    []subscription
	nextSub int
}

// New creates a store backed by the given adapter. The store starts
// empty; call Load to populate it.
func New(adapter persist.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:  adapter,
		log:      logrus.StandardLogger(),
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	s.data.Normalize()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the adapter's snapshot and
// notifies subscribers.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.adapter.GetData(ctx)
	if err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return fmt.Errorf("loading data: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.err = nil
	listeners := s.listenersLocked()
	snapshot := s.data.Clone()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Err returns the most recent persistence error, or nil. It is cleared
// by the next successful save.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Subscribe registers a listener that receives every new snapshot,
// synchronously with the mutation that produced it. The returned
// function removes the listener; calling it more than once is harmless.
func (s *Store) Subscribe(fn func(model.AppData)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Replace swaps in a whole new snapshot (used when a sync merge produces
// a reconciled state), notifies subscribers, and schedules persistence.
func (s *Store) Replace(data model.AppData) {
	_ = s.mutate(func(d *model.AppData) error {
		*d = data.Clone()
		d.Normalize()
		return nil
	})
}

// Flush cancels any pending debounced write and saves the current state
// immediately. Intended for shutdown.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	data := s.data.Clone()
	s.mu.Unlock()

	if err := s.adapter.SaveData(ctx, data); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return fmt.Errorf("flushing data: %w", err)
	}

	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
	return nil
}

// mutate applies fn to a copy of the state. On success the copy becomes
// the current state, subscribers are notified with it, and a debounced
// save is (re)armed. On error nothing changes.
func (s *Store) mutate(fn func(*model.AppData) error) error {
	s.mu.Lock()
	next := s.data.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.data = next
	s.armSaveLocked()
	listeners := s.listenersLocked()
	snapshot := next.Clone()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

// armSaveLocked resets the single-slot debounce timer. The pending
// payload is always "whatever the state is when the timer fires", so a
// burst of mutations drains exactly the latest snapshot.
func (s *Store) armSaveLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.persist)
}

// persist writes the current snapshot through the adapter. Always the
// full authoritative snapshot: overlapping saves can complete out of
// order without corrupting anything, the later content simply wins.
func (s *Store) persist() {
	s.mu.Lock()
	data := s.data.Clone()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.adapter.SaveData(ctx, data); err != nil {
		s.log.WithError(err).Error("persisting snapshot failed")
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

func (s *Store) listenersLocked() []func(model.AppData) {
	out := make([]func(model.AppData), len(s.subs))
	for i, sub := range s.subs {
		out[i] = sub.fn
	}
	return out
}

func (s *Store) stamp() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Package sync reconciles the local snapshot with a remote replica. A
// sync cycle fetches the remote snapshot, merges it with the local one,
// applies the merged result to the store, and pushes it back out. The
// remote can be a shared file (Dropbox-style folder), a WebDAV server,
// or the companion cloud server.
package sync

import (
	"context"
	"fmt"
	"path/filepath"
	gosync "sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/internal/persist"
	"github.com/nhle/gtd/internal/store"
)

// Backend identifies where the remote replica lives.
type Backend string

const (
	BackendOff    Backend = "off"
	BackendFile   Backend = "file"
	BackendWebDAV Backend = "webdav"
	BackendCloud  Backend = "cloud"
)

// State is the lifecycle phase of the sync service.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateError   State = "error"
)

// Status is a point-in-time description of the sync service, published
// to subscribers on every transition.
type Status struct {
	Backend  Backend
	State    State
	LastSync time.Time
	Err      error
}

// Result reports the outcome of a single sync cycle.
type Result struct {
	Success bool
	Error   string
}

// remote is a replica that can be fetched from and pushed to. found is
// false when the remote has no snapshot yet (first sync).
type remote interface {
	Fetch(ctx context.Context) (data model.AppData, found bool, err error)
	Push(ctx context.Context, data model.AppData) error
}

// Service coordinates sync cycles against the configured backend.
type Service struct {
	store *store.Store
	creds Credentials
	log   *log.Logger
	merge Merger
	now   func() time.Time

	mu      gosync.Mutex
	status  Status
	subs    []statusSubscription
	nextSub int
	running bool
}

type statusSubscription struct {
	id int
	fn func(Status)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMerger overrides the conflict resolution strategy.
func WithMerger(m Merger) ServiceOption {
	return func(s *Service) { s.merge = m }
}

// WithCredentials overrides the credential source (the system keyring
// by default).
func WithCredentials(c Credentials) ServiceOption {
	return func(s *Service) { s.creds = c }
}

// WithServiceLogger overrides the logger.
func WithServiceLogger(l *log.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

// WithServiceClock overrides the wall clock used for LastSync.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a sync service bound to the store.
func NewService(st *store.Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: st,
		creds: KeyringCredentials{},
		log:   log.StandardLogger(),
		merge: LastWriteWins{},
		now:   time.Now,
	}
	s.status = Status{Backend: BackendOff, State: StateIdle}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the current sync status.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SubscribeStatus registers a listener called on every status change.
// The returned function removes the listener.
func (s *Service) SubscribeStatus(fn func(Status)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, statusSubscription{id: id, fn: fn})
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

func (s *Service) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	subs := make([]func(Status), len(s.subs))
	for i, sub := range s.subs {
		subs[i] = sub.fn
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// PerformSync runs one full sync cycle against the backend configured in
// the store's settings. Concurrent calls are rejected; callers get a
// failed Result rather than a queued cycle.
func (s *Service) PerformSync(ctx context.Context) Result {
	settings := s.store.Snapshot().Settings
	backend := Backend(settings.SyncBackend)
	if backend == "" || backend == BackendOff {
		return Result{Success: false, Error: "sync backend is off"}
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Result{Success: false, Error: "sync already in progress"}
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	last := s.Status().LastSync
	s.setStatus(Status{Backend: backend, State: StateRunning, LastSync: last})

	rem, err := s.remoteFor(backend, settings)
	if err == nil {
		err = s.cycle(ctx, rem)
	}
	if err != nil {
		s.log.WithError(err).WithField("backend", backend).Error("sync failed")
		s.setStatus(Status{Backend: backend, State: StateError, LastSync: last, Err: err})
		return Result{Success: false, Error: err.Error()}
	}

	s.setStatus(Status{Backend: backend, State: StateIdle, LastSync: s.now()})
	return Result{Success: true}
}

// cycle fetches, merges, applies, and pushes.
func (s *Service) cycle(ctx context.Context, rem remote) error {
	theirs, found, err := rem.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching remote snapshot: %w", err)
	}

	ours := s.store.Snapshot()
	merged := ours
	if found {
		merged = s.merge.Merge(ours, theirs)
		s.store.Replace(merged)
	}

	if err := rem.Push(ctx, merged); err != nil {
		return fmt.Errorf("pushing merged snapshot: %w", err)
	}
	return nil
}

// remoteFor builds the remote replica for the configured backend.
func (s *Service) remoteFor(backend Backend, settings model.Settings) (remote, error) {
	switch backend {
	case BackendFile:
		if settings.SyncPath == "" {
			return nil, fmt.Errorf("file sync requires a sync folder path")
		}
		return fileRemote{adapter: persist.NewFileAdapter(filepath.Join(settings.SyncPath, "gtd-data.json"))}, nil

	case BackendWebDAV:
		if settings.WebDAVURL == "" {
			return nil, fmt.Errorf("webdav sync requires a server URL")
		}
		password, err := s.creds.Get(KeyWebDAVPassword)
		if err != nil {
			return nil, fmt.Errorf("reading webdav password: %w", err)
		}
		return newWebDAVRemote(settings.WebDAVURL, settings.WebDAVUser, password), nil

	case BackendCloud:
		if settings.CloudURL == "" {
			return nil, fmt.Errorf("cloud sync requires a server URL")
		}
		token, err := s.creds.Get(KeyCloudToken)
		if err != nil {
			return nil, fmt.Errorf("reading cloud token: %w", err)
		}
		return cloudRemote{adapter: persist.NewHTTPAdapter(settings.CloudURL, persist.WithBearerToken(token))}, nil

	default:
		return nil, fmt.Errorf("unknown sync backend %q", backend)
	}
}

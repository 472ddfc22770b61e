package sync_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/internal/persist"
	"github.com/nhle/gtd/internal/sync"
	"github.com/nhle/gtd/tests/testutil"
)

// fakeCredentials keeps secrets in a map so tests never touch the
// system keyring.
type fakeCredentials map[string]string

func (c fakeCredentials) Get(key string) (string, error) { return c[key], nil }
func (c fakeCredentials) Set(key, value string) error    { c[key] = value; return nil }
func (c fakeCredentials) Delete(key string) error        { delete(c, key); return nil }

func TestPerformSyncOffBackend(t *testing.T) {
	st, _ := testutil.NewTestStore(t)
	svc := sync.NewService(st, sync.WithCredentials(fakeCredentials{}))

	res := svc.PerformSync(context.Background())
	if res.Success {
		t.Fatal("sync should fail when the backend is off")
	}
	if res.Error != "sync backend is off" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}

func TestPerformSyncFileBackendFirstPush(t *testing.T) {
	st, _ := testutil.NewTestStore(t)
	dir := t.TempDir()
	if err := st.UpdateSettings(model.Settings{SyncBackend: "file", SyncPath: dir}); err != nil {
		t.Fatalf("updating settings: %v", err)
	}
	if _, err := st.AddTask(model.Task{Title: "local only"}); err != nil {
		t.Fatalf("adding task: %v", err)
	}

	svc := sync.NewService(st, sync.WithCredentials(fakeCredentials{}))
	res := svc.PerformSync(context.Background())
	if !res.Success {
		t.Fatalf("sync failed: %s", res.Error)
	}

	remotePath := filepath.Join(dir, "gtd-data.json")
	if _, err := os.Stat(remotePath); err != nil {
		t.Fatalf("remote replica not written: %v", err)
	}

	remote, err := persist.NewFileAdapter(remotePath).GetData(context.Background())
	if err != nil {
		t.Fatalf("reading replica: %v", err)
	}
	if len(remote.Tasks) != 1 || remote.Tasks[0].Title != "local only" {
		t.Fatalf("replica should carry the local task: %+v", remote.Tasks)
	}
}

func TestPerformSyncFileBackendMergesRemote(t *testing.T) {
	st, _ := testutil.NewTestStore(t)
	dir := t.TempDir()
	if err := st.UpdateSettings(model.Settings{SyncBackend: "file", SyncPath: dir}); err != nil {
		t.Fatalf("updating settings: %v", err)
	}
	local, _ := st.AddTask(model.Task{Title: "mine"})

	replica := persist.NewFileAdapter(filepath.Join(dir, "gtd-data.json"))
	remoteData := model.AppData{Tasks: []model.Task{
		{
			ID: "theirs-1", Title: "theirs", Status: model.StatusNext,
			CreatedAt: "2025-01-01T00:00:00.000Z",
			UpdatedAt: "2025-01-01T00:00:00.000Z",
		},
		{
			ID: local.ID, Title: "mine, edited elsewhere", Status: model.StatusNext,
			CreatedAt: local.CreatedAt,
			UpdatedAt: "2030-01-01T00:00:00.000Z",
		},
	}}
	if err := replica.SaveData(context.Background(), remoteData); err != nil {
		t.Fatalf("seeding replica: %v", err)
	}

	svc := sync.NewService(st, sync.WithCredentials(fakeCredentials{}))
	res := svc.PerformSync(context.Background())
	if !res.Success {
		t.Fatalf("sync failed: %s", res.Error)
	}

	snap := st.Snapshot()
	if len(snap.Tasks) != 2 {
		t.Fatalf("expected 2 tasks after merge, got %d", len(snap.Tasks))
	}
	byID := map[string]model.Task{}
	for _, task := range snap.Tasks {
		byID[task.ID] = task
	}
	if byID["theirs-1"].Title != "theirs" {
		t.Error("remote-only task should be adopted")
	}
	if byID[local.ID].Title != "mine, edited elsewhere" {
		t.Error("newer remote edit should win over the local copy")
	}
}

func TestPerformSyncStatusTransitions(t *testing.T) {
	st, _ := testutil.NewTestStore(t)
	dir := t.TempDir()
	if err := st.UpdateSettings(model.Settings{SyncBackend: "file", SyncPath: dir}); err != nil {
		t.Fatalf("updating settings: %v", err)
	}

	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := sync.NewService(st,
		sync.WithCredentials(fakeCredentials{}),
		sync.WithServiceClock(func() time.Time { return fixed }),
	)

	var states []sync.State
	svc.SubscribeStatus(func(s sync.Status) {
		states = append(states, s.State)
	})

	if res := svc.PerformSync(context.Background()); !res.Success {
		t.Fatalf("sync failed: %s", res.Error)
	}

	if len(states) != 2 || states[0] != sync.StateRunning || states[1] != sync.StateIdle {
		t.Fatalf("unexpected state sequence: %v", states)
	}
	if got := svc.Status(); !got.LastSync.Equal(fixed) {
		t.Errorf("LastSync = %v, want %v", got.LastSync, fixed)
	}
}

func TestSubscribeStatusUnsubscribe(t *testing.T) {
	st, _ := testutil.NewTestStore(t)
	dir := t.TempDir()
	if err := st.UpdateSettings(model.Settings{SyncBackend: "file", SyncPath: dir}); err != nil {
		t.Fatalf("updating settings: %v", err)
	}

	svc := sync.NewService(st, sync.WithCredentials(fakeCredentials{}))

	var first, second int
	unsubFirst := svc.SubscribeStatus(func(sync.Status) { first++ })
	svc.SubscribeStatus(func(sync.Status) { second++ })

	unsubFirst()
	unsubFirst() // second call is a no-op

	if res := svc.PerformSync(context.Background()); !res.Success {
		t.Fatalf("sync failed: %s", res.Error)
	}
	if first != 0 {
		t.Errorf("unsubscribed listener must not be called, got %d", first)
	}
	if second != 2 {
		t.Errorf("remaining listener should see running and idle, got %d", second)
	}
}

func TestPerformSyncErrorState(t *testing.T) {
	st, _ := testutil.NewTestStore(t)
	// file backend with no path configured
	if err := st.UpdateSettings(model.Settings{SyncBackend: "file"}); err != nil {
		t.Fatalf("updating settings: %v", err)
	}

	svc := sync.NewService(st, sync.WithCredentials(fakeCredentials{}))
	res := svc.PerformSync(context.Background())
	if res.Success {
		t.Fatal("sync should fail without a sync path")
	}
	if got := svc.Status(); got.State != sync.StateError || got.Err == nil {
		t.Fatalf("status should be error: %+v", got)
	}
}

func TestWebDAVSettingsKeepPasswordOnEmptyInput(t *testing.T) {
	st, _ := testutil.NewTestStore(t)
	creds := fakeCredentials{}
	svc := sync.NewService(st, sync.WithCredentials(creds))

	if err := svc.SetWebDAVSettings("https://dav.example.com/gtd.json", "alice", "s3cret"); err != nil {
		t.Fatalf("setting webdav config: %v", err)
	}
	cfg, err := svc.WebDAVSettings()
	if err != nil {
		t.Fatalf("reading webdav config: %v", err)
	}
	if !cfg.HasPassword || cfg.Username != "alice" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if err := svc.SetWebDAVSettings("https://dav2.example.com/gtd.json", "alice", ""); err != nil {
		t.Fatalf("updating webdav config: %v", err)
	}
	if creds[sync.KeyWebDAVPassword] != "s3cret" {
		t.Error("empty password input must keep the stored secret")
	}
	cfg, _ = svc.WebDAVSettings()
	if cfg.URL != "https://dav2.example.com/gtd.json" || !cfg.HasPassword {
		t.Fatalf("unexpected config after URL change: %+v", cfg)
	}
}

func TestSetBackendValidation(t *testing.T) {
	st, _ := testutil.NewTestStore(t)
	svc := sync.NewService(st, sync.WithCredentials(fakeCredentials{}))

	if err := svc.SetBackend("carrier-pigeon"); err == nil {
		t.Error("expected an error for an unknown backend")
	}
	if err := svc.SetBackend(sync.BackendWebDAV); err != nil {
		t.Fatalf("setting backend: %v", err)
	}
	if got := st.Snapshot().Settings.SyncBackend; got != "webdav" {
		t.Errorf("backend not persisted: %q", got)
	}
}

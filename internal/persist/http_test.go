package persist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/nhle/gtd/internal/model"
)

// fakeServer mimics the companion server's /api/data endpoints.
type fakeServer struct {
	mu   sync.Mutex
	data model.AppData
	auth string
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.auth = r.Header.Get("Authorization")

		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(f.data)
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&f.data); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]bool{"success": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func TestHTTPAdapterRoundTrip(t *testing.T) {
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL)
	ctx := context.Background()

	want := sampleData()
	if err := a.SaveData(ctx, want); err != nil {
		t.Fatalf("saving: %v", err)
	}

	got, err := a.GetData(ctx)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if !reflect.DeepEqual(got.Tasks, want.Tasks) {
		t.Errorf("tasks did not round-trip over HTTP")
	}
	if !reflect.DeepEqual(got.Settings, want.Settings) {
		t.Errorf("settings did not round-trip over HTTP")
	}
}

func TestHTTPAdapterBearerToken(t *testing.T) {
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL, WithBearerToken("secret"))
	if _, err := a.GetData(context.Background()); err != nil {
		t.Fatalf("loading: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.auth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", fake.auth)
	}
}

func TestHTTPAdapterServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL)
	if _, err := a.GetData(context.Background()); err == nil {
		t.Error("expected an error for a 500 response")
	}
	if err := a.SaveData(context.Background(), model.AppData{}); err == nil {
		t.Error("expected an error for a 500 response")
	}
}

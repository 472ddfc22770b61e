package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/tests/testutil"
)

func TestGetData(t *testing.T) {
	s, _ := testutil.NewTestStore(t)
	if _, err := s.AddTask(model.Task{Title: "served"}); err != nil {
		t.Fatalf("adding task: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := getData(s)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var data model.AppData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(data.Tasks) != 1 || data.Tasks[0].Title != "served" {
		t.Fatalf("unexpected tasks: %#v", data.Tasks)
	}
}

func TestPostDataReplacesSnapshot(t *testing.T) {
	s, _ := testutil.NewTestStore(t)
	if _, err := s.AddTask(model.Task{Title: "stale"}); err != nil {
		t.Fatalf("adding task: %v", err)
	}

	body := `{"tasks":[{"id":"n1","title":"fresh","status":"next","contexts":[],"tags":[],"createdAt":"2025-01-01T00:00:00.000Z","updatedAt":"2025-01-01T00:00:00.000Z"}],"projects":[],"areas":[],"settings":{}}`

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/data", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := postData(s, log.New())(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success {
		t.Error("expected success response")
	}

	snap := s.Snapshot()
	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != "n1" {
		t.Fatalf("snapshot should be replaced, got %#v", snap.Tasks)
	}
}

func TestPostDataBadBody(t *testing.T) {
	s, _ := testutil.NewTestStore(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/data", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := postData(s, log.New())(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s, _ := testutil.NewTestStore(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := healthz(s)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
}

package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/internal/persist"
)

// fileRemote syncs against a JSON file in a shared folder, typically one
// mirrored by Dropbox, Syncthing, or a network mount.
type fileRemote struct {
	adapter *persist.FileAdapter
}

func (r fileRemote) Fetch(ctx context.Context) (model.AppData, bool, error) {
	if _, err := os.Stat(r.adapter.Path()); os.IsNotExist(err) {
		return model.AppData{}, false, nil
	}
	data, err := r.adapter.GetData(ctx)
	if err != nil {
		return model.AppData{}, false, err
	}
	return data, true, nil
}

func (r fileRemote) Push(ctx context.Context, data model.AppData) error {
	return r.adapter.SaveData(ctx, data)
}

// cloudRemote syncs against the companion cloud server through the same
// HTTP contract the storage adapter uses.
type cloudRemote struct {
	adapter *persist.HTTPAdapter
}

func (r cloudRemote) Fetch(ctx context.Context) (model.AppData, bool, error) {
	data, err := r.adapter.GetData(ctx)
	if err != nil {
		return model.AppData{}, false, err
	}
	return data, true, nil
}

func (r cloudRemote) Push(ctx context.Context, data model.AppData) error {
	return r.adapter.SaveData(ctx, data)
}

// webdavRemote stores the snapshot as a single document on a WebDAV
// server using plain GET and PUT with basic auth. No WebDAV extensions
// are needed for a one-file replica.
type webdavRemote struct {
	url      string
	username string
	password string
	client   *http.Client
}

func newWebDAVRemote(url, username, password string) *webdavRemote {
	return &webdavRemote{
		url:      url,
		username: username,
		password: password,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *webdavRemote) Fetch(ctx context.Context) (model.AppData, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return model.AppData{}, false, fmt.Errorf("building request: %w", err)
	}
	r.authorize(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return model.AppData{}, false, fmt.Errorf("fetching %s: %w", r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.AppData{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return model.AppData{}, false, fmt.Errorf("fetching %s: unexpected status %d", r.url, resp.StatusCode)
	}

	var data model.AppData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.AppData{}, false, fmt.Errorf("decoding remote snapshot: %w", err)
	}
	data.Normalize()
	return data, true, nil
}

func (r *webdavRemote) Push(ctx context.Context, data model.AppData) error {
	data.Normalize()
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	r.authorize(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading to %s: %w", r.url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("uploading to %s: unexpected status %d", r.url, resp.StatusCode)
	}
}

func (r *webdavRemote) authorize(req *http.Request) {
	if r.username != "" || r.password != "" {
		req.SetBasicAuth(r.username, r.password)
	}
}

package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/gtd/internal/model"
)

// HTTPAdapter persists the snapshot through a companion server exposing
// GET/POST /api/data.
type HTTPAdapter struct {
	baseURL string
	token   string
	client  *http.Client
}

// HTTPOption configures an HTTPAdapter.
type HTTPOption func(*HTTPAdapter)

// WithBearerToken attaches an Authorization header to every request.
func WithBearerToken(token string) HTTPOption {
	return func(a *HTTPAdapter) { a.token = token }
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(a *HTTPAdapter) { a.client = c }
}

// NewHTTPAdapter returns an adapter talking to the companion server at
// baseURL (e.g. "http://127.0.0.1:3001").
func NewHTTPAdapter(baseURL string, opts ...HTTPOption) *HTTPAdapter {
	a := &HTTPAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *HTTPAdapter) dataURL() string { return a.baseURL + "/api/data" }

// GetData fetches the snapshot from the companion server.
func (a *HTTPAdapter) GetData(ctx context.Context) (model.AppData, error) {
	var data model.AppData

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.dataURL(), nil)
	if err != nil {
		return data, fmt.Errorf("building request: %w", err)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return data, fmt.Errorf("fetching %s: %w", a.dataURL(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return data, fmt.Errorf("fetching %s: unexpected status %d", a.dataURL(), resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.AppData{}, fmt.Errorf("decoding response: %w", err)
	}
	data.Normalize()
	return data, nil
}

// SaveData posts the snapshot to the companion server.
func (a *HTTPAdapter) SaveData(ctx context.Context, data model.AppData) error {
	data.Normalize()
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.dataURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", a.dataURL(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("posting %s: unexpected status %d", a.dataURL(), resp.StatusCode)
	}
	return nil
}

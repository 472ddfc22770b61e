// Package persist defines the persistence boundary the store writes
// through. Adapters always exchange the full authoritative snapshot,
// never diffs, so overlapping saves cannot interleave partial state.
package persist

import (
	"context"

	"github.com/nhle/gtd/internal/model"
)

// Adapter loads and saves the full application snapshot. Implementations
// are swapped per platform: a local JSON file, an embedded SQLite
// database, or an HTTP round trip to a companion server.
type Adapter interface {
	GetData(ctx context.Context) (model.AppData, error)
	SaveData(ctx context.Context, data model.AppData) error
}

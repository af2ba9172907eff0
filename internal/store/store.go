// Package store persists fetched location figures between invocations so
// repeated comparisons do not re-hit the data source. Entries carry a TTL;
// expired rows are ignored on read and removed by DeleteExpired.
package store

import (
	"context"

	"github.com/sells-group/colcmp/internal/dataset"
)

// Store is the persistence interface for the location cache. It extends the
// loader's Cache with lifecycle and maintenance operations.
type Store interface {
	dataset.Cache

	// DeleteExpired removes entries past their TTL and reports how many.
	DeleteExpired(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

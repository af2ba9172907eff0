// Package dataset holds the raw per-location data consumed by the catalog:
// the bundled location index (codes and names) and the fetched wage/expense
// figures for each (location, family configuration) pair.
package dataset

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/colcmp/internal/model"
)

// ErrDataSource indicates an unusable dataset (empty, unreadable, or every
// location malformed). Per-location anomalies are warnings, not this error.
var ErrDataSource = eris.New("data source unusable")

// RawLocation is one location's entry in a dataset. Index-only entries carry
// just the identity; fetched entries also carry figures per family key.
type RawLocation struct {
	ID       model.ID                 `json:"id"`
	Name     string                   `json:"name"`
	Families map[string]model.Figures `json:"families,omitempty"`
}

// HasFigures reports whether any family configuration has fetched data.
func (r RawLocation) HasFigures() bool {
	return len(r.Families) > 0
}

// Dataset is the collaborator-supplied input to catalog construction.
type Dataset []RawLocation

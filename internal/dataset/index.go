package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/colcmp/internal/model"
)

// indexFile is the on-disk shape of the location index: code -> display name
// per location kind. JSON matches the original database file; YAML is
// accepted for hand-maintained indexes.
type indexFile struct {
	Metros   map[string]string `json:"metros" yaml:"metros"`
	Counties map[string]string `json:"counties" yaml:"counties"`
	States   map[string]string `json:"states" yaml:"states"`
}

// LoadIndex reads the location index file and returns identity-only entries
// ordered by (kind, code). An empty or unreadable index is an ErrDataSource:
// without it no query can be resolved.
func LoadIndex(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(ErrDataSource, "read index %s: %v", path, err)
	}

	var idx indexFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &idx); err != nil {
			return nil, eris.Wrapf(ErrDataSource, "parse index %s: %v", path, err)
		}
	default:
		if err := json.Unmarshal(raw, &idx); err != nil {
			return nil, eris.Wrapf(ErrDataSource, "parse index %s: %v", path, err)
		}
	}

	var ds Dataset
	for _, group := range []struct {
		kind  model.Kind
		names map[string]string
	}{
		{model.KindMetro, idx.Metros},
		{model.KindCounty, idx.Counties},
		{model.KindState, idx.States},
	} {
		codes := make([]string, 0, len(group.names))
		for code := range group.names {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			ds = append(ds, RawLocation{
				ID:   model.ID{Kind: group.kind, Code: code},
				Name: group.names[code],
			})
		}
	}

	if len(ds) == 0 {
		return nil, eris.Wrapf(ErrDataSource, "index %s contains no locations", path)
	}
	return ds, nil
}

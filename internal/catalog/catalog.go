// Package catalog indexes all known locations and resolves user queries
// (explicit codes or free-text search) to location entries.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/colcmp/internal/dataset"
	"github.com/sells-group/colcmp/internal/model"
)

// ErrLocationNotFound indicates an unresolvable code or a search query with
// zero matches.
var ErrLocationNotFound = eris.New("location not found")

// ErrNoFamilyData indicates a location entry without figures for the
// requested family configuration.
var ErrNoFamilyData = eris.New("no data for family configuration")

// Location is one catalog entry: an identity plus whatever per-family
// figures the dataset supplied. Entries are immutable after Load.
type Location struct {
	ID       model.ID
	Name     string
	families map[string]model.Figures
	normName string
}

// HasFigures reports whether any family configuration has data.
func (l *Location) HasFigures() bool {
	return len(l.families) > 0
}

// Record materializes the immutable LocationRecord for one family
// configuration.
func (l *Location) Record(family model.FamilyConfig) (model.LocationRecord, error) {
	fig, ok := l.families[family.Key]
	if !ok {
		return model.LocationRecord{}, eris.Wrapf(ErrNoFamilyData, "%s (%s)", l.ID, family.Key)
	}
	return model.LocationRecord{
		ID:      l.ID,
		Name:    l.Name,
		Family:  family,
		Figures: fig,
	}, nil
}

// Catalog holds the full location set with two indices: by (kind, code) and
// by normalized name. Built once per run, read-only thereafter.
type Catalog struct {
	entries  []*Location
	byCode   map[model.ID]*Location
	warnings []dataset.Warning
}

func kindRank(k model.Kind) int {
	switch k {
	case model.KindMetro:
		return 0
	case model.KindCounty:
		return 1
	default:
		return 2
	}
}

// Load builds the catalog from a dataset. Malformed locations are skipped
// and recorded as warnings; the load fails only when the dataset is empty or
// nothing survives validation.
func Load(ds dataset.Dataset) (*Catalog, error) {
	if len(ds) == 0 {
		return nil, eris.Wrap(dataset.ErrDataSource, "empty dataset")
	}

	c := &Catalog{byCode: make(map[model.ID]*Location, len(ds))}
	warn := func(id model.ID, format string, args ...any) {
		c.warnings = append(c.warnings, dataset.Warning{ID: id, Message: fmt.Sprintf(format, args...)})
	}

	for _, raw := range ds {
		if err := validate(raw); err != nil {
			warn(raw.ID, "skipped: %v", err)
			continue
		}
		if _, dup := c.byCode[raw.ID]; dup {
			warn(raw.ID, "skipped: duplicate code")
			continue
		}

		for key, fig := range raw.Families {
			if fig.BeforeTax < fig.AfterTax {
				warn(raw.ID, "before-tax income %.0f below after-tax %.0f (%s)", fig.BeforeTax, fig.AfterTax, key)
			}
		}

		families := make(map[string]model.Figures, len(raw.Families))
		for key, fig := range raw.Families {
			families[key] = fig
		}
		loc := &Location{
			ID:       raw.ID,
			Name:     raw.Name,
			families: families,
			normName: normalizeName(raw.Name),
		}
		c.entries = append(c.entries, loc)
		c.byCode[loc.ID] = loc
	}

	if len(c.entries) == 0 {
		return nil, eris.Wrap(dataset.ErrDataSource, "no usable locations in dataset")
	}

	sort.SliceStable(c.entries, func(i, j int) bool {
		a, b := c.entries[i], c.entries[j]
		if a.ID.Kind != b.ID.Kind {
			return kindRank(a.ID.Kind) < kindRank(b.ID.Kind)
		}
		return a.ID.Code < b.ID.Code
	})

	return c, nil
}

func validate(raw dataset.RawLocation) error {
	if _, err := model.ParseKind(string(raw.ID.Kind)); err != nil {
		return err
	}
	if raw.ID.Code == "" {
		return eris.New("empty code")
	}
	if strings.TrimSpace(raw.Name) == "" {
		return eris.New("empty name")
	}
	for key, fig := range raw.Families {
		if _, err := model.ParseFamily(key); err != nil {
			return err
		}
		if fig.HourlyWage < 0 || fig.BeforeTax < 0 || fig.AfterTax < 0 {
			return eris.Errorf("negative wage figure (%s)", key)
		}
		for i, v := range fig.Expenses {
			if v < 0 {
				return eris.Errorf("negative %s expense (%s)", model.Category(i), key)
			}
		}
	}
	return nil
}

// ResolveByCode performs an exact (kind, code) lookup.
func (c *Catalog) ResolveByCode(kind model.Kind, code string) (*Location, error) {
	loc, ok := c.byCode[model.ID{Kind: kind, Code: code}]
	if !ok {
		return nil, eris.Wrapf(ErrLocationNotFound, "%s code %q", kind, code)
	}
	return loc, nil
}

// Search returns every location whose normalized name contains the
// normalized query, ordered: exact full-name matches, then prefix matches,
// then remaining substring matches in catalog order. The caller chooses
// among multiple candidates; the catalog never guesses.
func (c *Catalog) Search(query string) ([]*Location, error) {
	q := normalizeName(query)
	if q == "" {
		return nil, eris.Wrapf(ErrLocationNotFound, "empty query %q", query)
	}

	var exact, prefix, substring []*Location
	for _, loc := range c.entries {
		switch {
		case loc.normName == q:
			exact = append(exact, loc)
		case strings.HasPrefix(loc.normName, q):
			prefix = append(prefix, loc)
		case strings.Contains(loc.normName, q):
			substring = append(substring, loc)
		}
	}

	matches := make([]*Location, 0, len(exact)+len(prefix)+len(substring))
	matches = append(matches, exact...)
	matches = append(matches, prefix...)
	matches = append(matches, substring...)
	if len(matches) == 0 {
		return nil, eris.Wrapf(ErrLocationNotFound, "no location matching %q", query)
	}
	return matches, nil
}

// ResolveName resolves a free-text query to a single location. It succeeds
// when exactly one location matches, or when exactly one match's full
// normalized name equals the query. Anything else returns the candidate list
// for the caller to disambiguate.
func (c *Catalog) ResolveName(query string) (*Location, []*Location, error) {
	matches, err := c.Search(query)
	if err != nil {
		return nil, nil, err
	}
	if len(matches) == 1 {
		return matches[0], nil, nil
	}

	q := normalizeName(query)
	var exact []*Location
	for _, m := range matches {
		if m.normName == q {
			exact = append(exact, m)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil, nil
	}
	return nil, matches, nil
}

// List returns all entries in (kind, code) order.
func (c *Catalog) List() []*Location {
	out := make([]*Location, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of indexed locations.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Warnings returns per-location anomalies recorded during Load.
func (c *Catalog) Warnings() []dataset.Warning {
	return c.warnings
}

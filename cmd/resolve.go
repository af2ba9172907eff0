package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/colcmp/internal/catalog"
	"github.com/sells-group/colcmp/internal/model"
)

// locationFlags holds the mutually exclusive location selectors shared by the
// compare and show commands.
type locationFlags struct {
	search   []string
	metros   []string
	counties []string
	states   []string
}

// resolveLocations turns the selector flags into an ordered ID list using the
// index catalog. Search terms resolve only when unambiguous; otherwise the
// error lists every candidate grouped by kind.
func resolveLocations(index *catalog.Catalog, flags locationFlags) ([]model.ID, error) {
	var ids []model.ID

	for _, term := range flags.search {
		loc, candidates, err := index.ResolveName(term)
		if err != nil {
			return nil, eris.Wrapf(err, "resolve %q", term)
		}
		if loc == nil {
			return nil, eris.New(disambiguation(term, candidates))
		}
		ids = append(ids, loc.ID)
	}

	for _, group := range []struct {
		kind  model.Kind
		codes []string
	}{
		{model.KindMetro, flags.metros},
		{model.KindCounty, flags.counties},
		{model.KindState, flags.states},
	} {
		for _, code := range group.codes {
			loc, err := index.ResolveByCode(group.kind, code)
			if err != nil {
				return nil, err
			}
			ids = append(ids, loc.ID)
		}
	}

	if len(ids) == 0 {
		return nil, eris.New("no locations specified; use --search, --metros, --counties, or --states")
	}
	return ids, nil
}

// disambiguation renders the candidate list for an ambiguous search term,
// grouped by kind with the flag that selects each candidate directly.
func disambiguation(term string, candidates []*catalog.Location) string {
	return fmt.Sprintf("multiple locations match %q:\n%s", term, candidateGroups(candidates))
}

// candidateGroups renders candidates grouped by kind, each line carrying the
// code flag that selects it directly.
func candidateGroups(candidates []*catalog.Location) string {
	var sb strings.Builder

	for _, group := range []struct {
		kind  model.Kind
		label string
		flag  string
	}{
		{model.KindMetro, "Metro Areas", "--metros"},
		{model.KindCounty, "Counties", "--counties"},
		{model.KindState, "States", "--states"},
	} {
		var lines []string
		for _, loc := range candidates {
			if loc.ID.Kind == group.kind {
				lines = append(lines, fmt.Sprintf("    %s %s  %s", group.flag, loc.ID.Code, loc.Name))
			}
		}
		if len(lines) > 0 {
			fmt.Fprintf(&sb, "\n  %s:\n%s\n", group.label, strings.Join(lines, "\n"))
		}
	}

	sb.WriteString("\nTip: use --metros, --counties, or --states with the codes above.")
	return sb.String()
}

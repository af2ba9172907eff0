// Package report assembles the comparison result consumed by the
// presentation layer: per-category percentage differences against a baseline
// location and optional income equivalence rows.
package report

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/colcmp/internal/equiv"
	"github.com/sells-group/colcmp/internal/model"
)

// ErrNoLocations indicates a build request without any locations.
var ErrNoLocations = eris.New("no locations to compare")

// ErrZeroBaseline indicates a percentage difference against a zero baseline.
var ErrZeroBaseline = eris.New("zero baseline value")

// PercentDiff returns the percentage difference of other relative to
// baseline. A zero baseline is an error; report assembly renders it as n/a
// instead of failing.
func PercentDiff(baseline, other float64) (float64, error) {
	if baseline == 0 {
		return 0, ErrZeroBaseline
	}
	return (other - baseline) / baseline * 100, nil
}

// Cell is one location's value for one row, with its difference against the
// baseline. Diff is nil when the baseline is zero (rendered as n/a).
type Cell struct {
	Value float64  `json:"value"`
	Diff  *float64 `json:"diff_pct,omitempty"`
}

// CategoryRow is one expense category across all compared locations. Cells
// are ordered like Report.Locations.
type CategoryRow struct {
	Category model.Category `json:"-"`
	Label    string         `json:"category"`
	Cells    []Cell         `json:"cells"`
}

// Equivalence is one income translation from the baseline into a target
// location under one method. Err is set when the method's preconditions
// failed for this pair; the rest of the report still renders.
type Equivalence struct {
	Target  model.ID     `json:"target"`
	Method  equiv.Method `json:"method"`
	Income  float64      `json:"income"`
	Result  float64      `json:"result,omitempty"`
	DiffPct *float64     `json:"diff_pct,omitempty"`
	Err     string       `json:"error,omitempty"`
}

// Options configures report assembly.
type Options struct {
	Income  float64 // annual income in the baseline location; 0 disables equivalence
	Methods []equiv.Method
	Exclude []model.Category
}

// Report is the assembled comparison over an ordered set of location
// records. The first location is the baseline.
type Report struct {
	Family       model.FamilyConfig     `json:"family"`
	Locations    []model.LocationRecord `json:"locations"`
	Categories   []CategoryRow          `json:"categories"`
	Taxes        CategoryRow            `json:"taxes"`
	BeforeTax    CategoryRow            `json:"before_tax"`
	Equivalences []Equivalence          `json:"equivalences,omitempty"`
	Excluded     []model.Category       `json:"-"`
	Warnings     []string               `json:"warnings,omitempty"`
}

// Build assembles a report for the given records against the first record as
// baseline. All records must share a family configuration.
func Build(records []model.LocationRecord, opts Options) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrNoLocations
	}

	base := records[0]
	for _, rec := range records[1:] {
		if rec.Family.Key != base.Family.Key {
			return nil, eris.Wrapf(equiv.ErrConfigMismatch, "%s built for %s, baseline %s",
				rec.ID, rec.Family.Key, base.Family.Key)
		}
	}

	excluded := make(map[model.Category]bool, len(opts.Exclude))
	for _, c := range opts.Exclude {
		excluded[c] = true
	}

	rep := &Report{
		Family:    base.Family,
		Locations: records,
		Excluded:  opts.Exclude,
	}

	for _, cat := range model.Categories() {
		if excluded[cat] {
			continue
		}
		values := make([]float64, len(records))
		for i, rec := range records {
			values[i] = rec.Expense(cat)
		}
		rep.Categories = append(rep.Categories, CategoryRow{
			Category: cat,
			Label:    cat.String(),
			Cells:    rep.cells(cat.String(), values),
		})
	}

	taxes := make([]float64, len(records))
	beforeTax := make([]float64, len(records))
	for i, rec := range records {
		taxes[i] = rec.Figures.Taxes
		beforeTax[i] = rec.Figures.BeforeTax
	}
	rep.Taxes = CategoryRow{Label: "Taxes", Cells: rep.cells("Taxes", taxes)}
	rep.BeforeTax = CategoryRow{Label: "Total (pre-tax)", Cells: rep.cells("Total (pre-tax)", beforeTax)}

	if opts.Income > 0 && len(records) > 1 {
		methods := opts.Methods
		if len(methods) == 0 {
			methods = []equiv.Method{equiv.DefaultMethod}
		}
		rep.buildEquivalences(opts.Income, methods, opts.Exclude)
	}

	return rep, nil
}

// cells computes diff-vs-baseline cells for one row, recording a warning
// instead of failing when the baseline value is zero.
func (r *Report) cells(label string, values []float64) []Cell {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Value: v}
		if i == 0 {
			continue
		}
		diff, err := PercentDiff(values[0], v)
		if err != nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: baseline is zero, difference n/a", label))
			continue
		}
		cells[i].Diff = &diff
	}
	return cells
}

func (r *Report) buildEquivalences(income float64, methods []equiv.Method, exclude []model.Category) {
	base := r.Locations[0]
	for _, target := range r.Locations[1:] {
		for _, m := range methods {
			eq := Equivalence{Target: target.ID, Method: m, Income: income}
			result, err := equiv.Compute(m, income, base, target, equiv.Options{Exclude: exclude})
			if err != nil {
				eq.Err = err.Error()
				r.Warnings = append(r.Warnings, fmt.Sprintf("%s %s: %v", m, target.ID, err))
			} else {
				eq.Result = result
				if diff, derr := PercentDiff(income, result); derr == nil {
					eq.DiffPct = &diff
				}
			}
			r.Equivalences = append(r.Equivalences, eq)
		}
	}
}

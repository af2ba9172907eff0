package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sells-group/colcmp/internal/catalog"
	"github.com/sells-group/colcmp/internal/equiv"
	"github.com/sells-group/colcmp/internal/model"
	"github.com/sells-group/colcmp/internal/report"
)

const dataSourceNote = "Data source: MIT Living Wage Calculator (https://livingwage.mit.edu)"

// formatDollar formats a rounded dollar amount with comma grouping.
func formatDollar(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(v, 'f', 0, 64)
	s = strings.TrimPrefix(s, "-")

	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-$" + sb.String()
	}
	return "$" + sb.String()
}

// formatPct formats a percentage change with an explicit sign.
func formatPct(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// renderReport writes the comparison table in the terminal layout.
func renderReport(w io.Writer, rep *report.Report) {
	names := make([]string, len(rep.Locations))
	for i, loc := range rep.Locations {
		names[i] = loc.Name
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cost of Living Comparison")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, strings.Join(names, "  vs  "))
	fmt.Fprintf(w, "Family type: %s\n", rep.Family.Label())
	if len(rep.Excluded) > 0 {
		labels := make([]string, len(rep.Excluded))
		for i, c := range rep.Excluded {
			labels[i] = c.String()
		}
		sort.Strings(labels)
		fmt.Fprintf(w, "Excluded:    %s\n", strings.Join(labels, ", "))
	}
	fmt.Fprintln(w)

	renderEquivalences(w, rep)

	fmt.Fprintln(w, "Expense Breakdown (Annual):")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	header := "Category\t" + strings.Join(names, "\t")
	if len(rep.Locations) > 1 {
		header += "\tDiff"
	}
	fmt.Fprintln(tw, header+"\t")

	for _, row := range rep.Categories {
		fmt.Fprintln(tw, categoryLine(rep, row))
	}
	fmt.Fprintln(tw, categoryLine(rep, rep.Taxes))
	fmt.Fprintln(tw, categoryLine(rep, rep.BeforeTax))

	wages := make([]string, len(rep.Locations))
	for i, loc := range rep.Locations {
		wages[i] = fmt.Sprintf("$%.2f/hr", loc.Figures.HourlyWage)
	}
	line := "Living Wage\t" + strings.Join(wages, "\t")
	if len(rep.Locations) > 1 {
		line += "\t"
	}
	fmt.Fprintln(tw, line+"\t")
	tw.Flush()

	for _, warning := range rep.Warnings {
		fmt.Fprintf(w, "Note: %s\n", warning)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, dataSourceNote)
	fmt.Fprintln(w)
}

// categoryLine renders one table row: values per location, then the diff of
// the second location against the baseline when comparing.
func categoryLine(rep *report.Report, row report.CategoryRow) string {
	parts := make([]string, 0, len(row.Cells)+2)
	parts = append(parts, row.Label)
	for _, cell := range row.Cells {
		parts = append(parts, formatDollar(cell.Value))
	}
	if len(row.Cells) > 1 {
		if d := row.Cells[1].Diff; d != nil {
			parts = append(parts, formatPct(*d))
		} else {
			parts = append(parts, "N/A")
		}
	}
	return strings.Join(parts, "\t") + "\t"
}

// renderEquivalences prints the headline income translation, one block per
// method in first-seen order.
func renderEquivalences(w io.Writer, rep *report.Report) {
	if len(rep.Equivalences) == 0 {
		return
	}

	nameByID := make(map[model.ID]string, len(rep.Locations))
	for _, loc := range rep.Locations {
		nameByID[loc.ID] = loc.Name
	}
	baseName := rep.Locations[0].Name

	var methods []equiv.Method
	seen := make(map[equiv.Method]bool)
	for _, eq := range rep.Equivalences {
		if !seen[eq.Method] {
			seen[eq.Method] = true
			methods = append(methods, eq.Method)
		}
	}

	for _, m := range methods {
		fmt.Fprintf(w, "INCOME EQUIVALENCE  [method: %s]\n", m.Label())
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, eq := range rep.Equivalences {
			if eq.Method != m {
				continue
			}
			target := nameByID[eq.Target]
			if eq.Err != "" {
				fmt.Fprintf(w, "  %s in %s  ~  N/A in %s (%s)\n",
					formatDollar(eq.Income), baseName, target, eq.Err)
				continue
			}
			suffix := ""
			if eq.DiffPct != nil && *eq.DiffPct != 0 {
				direction := "more"
				if *eq.DiffPct < 0 {
					direction = "less"
				}
				suffix = fmt.Sprintf(" (%.1f%% %s)", absFloat(*eq.DiffPct), direction)
			}
			fmt.Fprintf(w, "  %s in %s  ~  %s in %s%s\n",
				formatDollar(eq.Income), baseName, formatDollar(eq.Result), target, suffix)
		}
		fmt.Fprintln(w)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// renderSingle prints the detail view for one location.
func renderSingle(w io.Writer, rep *report.Report) {
	loc := rep.Locations[0]

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Living Wage Data: %s\n", loc.Name)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Family type: %s\n", rep.Family.Label())
	if len(rep.Excluded) > 0 {
		labels := make([]string, len(rep.Excluded))
		for i, c := range rep.Excluded {
			labels[i] = c.String()
		}
		sort.Strings(labels)
		fmt.Fprintf(w, "Excluded:    %s\n", strings.Join(labels, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Living Wage: $%.2f/hr\n", loc.Figures.HourlyWage)
	fmt.Fprintf(w, "  Required Annual Income (before tax): %s\n", formatDollar(loc.Figures.BeforeTax))
	fmt.Fprintf(w, "  Required Annual Income (after tax):  %s\n", formatDollar(loc.Figures.AfterTax))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Annual Expenses:")
	for _, row := range rep.Categories {
		fmt.Fprintf(w, "    %-22s %s\n", row.Label, formatDollar(row.Cells[0].Value))
	}
	fmt.Fprintf(w, "    %-22s %s\n", "Taxes", formatDollar(loc.Figures.Taxes))

	fmt.Fprintln(w)
	fmt.Fprintln(w, dataSourceNote)
	fmt.Fprintln(w)
}

// renderList prints every index entry grouped by kind, sorted by name.
func renderList(w io.Writer, locations []*catalog.Location) {
	for _, group := range []struct {
		kind   model.Kind
		header string
	}{
		{model.KindMetro, "Metro Areas (use with --metros <code>):"},
		{model.KindCounty, "Counties (use with --counties <code>):"},
		{model.KindState, "States (use with --states <code>):"},
	} {
		var members []*catalog.Location
		for _, loc := range locations {
			if loc.ID.Kind == group.kind {
				members = append(members, loc)
			}
		}
		if len(members) == 0 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

		fmt.Fprintln(w)
		fmt.Fprintln(w, group.header)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, loc := range members {
			fmt.Fprintf(w, "  %s  %s\n", loc.ID.Code, loc.Name)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Any county or metro can also be used by FIPS/CBSA code directly,")
	fmt.Fprintln(w, "even if not listed above. Find codes at https://livingwage.mit.edu")
	fmt.Fprintln(w)
}

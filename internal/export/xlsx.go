// Package export writes assembled comparison reports to XLSX workbooks.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/colcmp/internal/report"
)

const (
	dollarFormat  = `$#,##0`
	percentFormat = `0.0"%"`
)

// WriteXLSX writes the report to an XLSX workbook at the given path. The
// comparison table goes on one sheet; equivalence rows, when present, on a
// second.
func WriteXLSX(rep *report.Report, path string) error {
	f := xlsx.NewFile()

	if err := addComparisonSheet(f, rep); err != nil {
		return err
	}
	if len(rep.Equivalences) > 0 {
		if err := addEquivalenceSheet(f, rep); err != nil {
			return err
		}
	}

	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}

func addComparisonSheet(f *xlsx.File, rep *report.Report) error {
	sheet, err := f.AddSheet("Comparison")
	if err != nil {
		return eris.Wrap(err, "xlsx: add comparison sheet")
	}

	header := sheet.AddRow()
	header.AddCell().Value = "Category"
	for i, loc := range rep.Locations {
		header.AddCell().Value = loc.Name
		if i > 0 {
			header.AddCell().Value = "vs " + rep.Locations[0].Name + " (%)"
		}
	}

	for _, row := range rep.Categories {
		addCategoryRow(sheet, row)
	}
	addCategoryRow(sheet, rep.Taxes)
	addCategoryRow(sheet, rep.BeforeTax)

	if len(rep.Warnings) > 0 {
		sheet.AddRow()
		for _, w := range rep.Warnings {
			r := sheet.AddRow()
			r.AddCell().Value = "Note: " + w
		}
	}
	return nil
}

func addCategoryRow(sheet *xlsx.Sheet, row report.CategoryRow) {
	r := sheet.AddRow()
	r.AddCell().Value = row.Label
	for i, cell := range row.Cells {
		r.AddCell().SetFloatWithFormat(cell.Value, dollarFormat)
		if i == 0 {
			continue
		}
		if cell.Diff != nil {
			r.AddCell().SetFloatWithFormat(*cell.Diff, percentFormat)
		} else {
			r.AddCell().Value = "n/a"
		}
	}
}

func addEquivalenceSheet(f *xlsx.File, rep *report.Report) error {
	sheet, err := f.AddSheet("Equivalence")
	if err != nil {
		return eris.Wrap(err, "xlsx: add equivalence sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Target", "Method", "Income", "Equivalent", "Diff (%)", "Error"} {
		header.AddCell().Value = h
	}

	targetNames := make(map[string]string, len(rep.Locations))
	for _, loc := range rep.Locations {
		targetNames[loc.ID.String()] = loc.Name
	}

	for _, eq := range rep.Equivalences {
		r := sheet.AddRow()
		name := targetNames[eq.Target.String()]
		if name == "" {
			name = eq.Target.String()
		}
		r.AddCell().Value = name
		r.AddCell().Value = eq.Method.Label()
		r.AddCell().SetFloatWithFormat(eq.Income, dollarFormat)
		if eq.Err != "" {
			r.AddCell().Value = "n/a"
			r.AddCell().Value = "n/a"
			r.AddCell().Value = eq.Err
			continue
		}
		r.AddCell().SetFloatWithFormat(eq.Result, dollarFormat)
		if eq.DiffPct != nil {
			r.AddCell().SetFloatWithFormat(*eq.DiffPct, percentFormat)
		} else {
			r.AddCell().Value = "n/a"
		}
		r.AddCell().Value = ""
	}
	return nil
}

package fetcher

import (
	"io"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/sells-group/colcmp/internal/model"
)

// ErrPageLayout indicates a page without any recognizable data tables.
var ErrPageLayout = eris.New("unrecognized page layout")

// Page is the parsed content of one location page: hourly wages and annual
// figures per family configuration key.
type Page struct {
	Name      string
	Wages     map[string]float64
	Expenses  map[model.Category]map[string]float64
	BeforeTax map[string]float64
	AfterTax  map[string]float64
	Taxes     map[string]float64
}

var headingPrefixes = []string{
	"Living Wage Calculation for ",
	"Living Wage Calculator for ",
}

var titleNameRe = regexp.MustCompile(`for\s+(.+)$`)

// categoryAliases maps each category to the row-label fragments the source
// uses for it. Checked in category order; "other" must come after the more
// specific labels.
var categoryAliases = map[model.Category][]string{
	model.CategoryFood:           {"food"},
	model.CategoryChildCare:      {"child care", "childcare"},
	model.CategoryMedical:        {"medical"},
	model.CategoryHousing:        {"housing"},
	model.CategoryTransportation: {"transportation"},
	model.CategoryCivic:          {"civic"},
	model.CategoryInternetMobile: {"internet & mobile", "broadband", "internet", "telephone"},
	model.CategoryOther:          {"other necessities", "other"},
}

// ParsePage extracts the location name, wage table, and typical-expenses
// table from a location page.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}

	p := &Page{
		Wages:     make(map[string]float64),
		Expenses:  make(map[model.Category]map[string]float64),
		BeforeTax: make(map[string]float64),
		AfterTax:  make(map[string]float64),
		Taxes:     make(map[string]float64),
	}

	p.Name = findName(doc)

	tables := findElements(doc, "table")
	if wage := findWageTable(tables); wage != nil {
		p.parseWageTable(wage)
	}
	if expense := findExpenseTable(tables); expense != nil {
		p.parseExpenseTable(expense)
	}

	if len(p.Wages) == 0 && len(p.BeforeTax) == 0 {
		return nil, eris.Wrap(ErrPageLayout, "no wage or expense tables found")
	}
	return p, nil
}

func findName(doc *html.Node) string {
	for _, tag := range []string{"h2", "h3"} {
		for _, h := range findElements(doc, tag) {
			text := nodeText(h)
			for _, prefix := range headingPrefixes {
				if strings.HasPrefix(text, prefix) {
					return strings.TrimSpace(strings.TrimPrefix(text, prefix))
				}
			}
		}
	}
	for _, title := range findElements(doc, "title") {
		if m := titleNameRe.FindStringSubmatch(nodeText(title)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func findWageTable(tables []*html.Node) *html.Node {
	for _, t := range tables {
		text := strings.ToLower(nodeText(t))
		if strings.Contains(text, "living wage") &&
			(strings.Contains(text, "poverty wage") || strings.Contains(text, "minimum wage")) {
			return t
		}
	}
	return nil
}

func findExpenseTable(tables []*html.Node) *html.Node {
	for _, t := range tables {
		text := strings.ToLower(nodeText(t))
		if strings.Contains(text, "typical expenses") {
			return t
		}
		if strings.Contains(text, "food") && strings.Contains(text, "housing") &&
			strings.Contains(text, "transportation") && !strings.Contains(text, "poverty wage") {
			return t
		}
	}
	return nil
}

func (p *Page) parseWageTable(table *html.Node) {
	for _, row := range tableRows(table) {
		if len(row) < 2 || !strings.Contains(strings.ToLower(row[0]), "living wage") {
			continue
		}
		p.Wages = valuesByFamily(row[1:])
		return
	}
}

func (p *Page) parseExpenseTable(table *html.Node) {
	for _, row := range tableRows(table) {
		if len(row) < 2 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		values := row[1:]

		// Income rows first: "annual taxes" alone must not swallow the
		// before/after-tax rows.
		switch {
		case strings.Contains(label, "income before taxes"):
			p.BeforeTax = valuesByFamily(values)
			continue
		case strings.Contains(label, "income after taxes"):
			p.AfterTax = valuesByFamily(values)
			continue
		case strings.Contains(label, "taxes"):
			p.Taxes = valuesByFamily(values)
			continue
		}

		if cat, ok := categoryForLabel(label); ok {
			p.Expenses[cat] = valuesByFamily(values)
		}
	}
}

func categoryForLabel(label string) (model.Category, bool) {
	for _, cat := range model.Categories() {
		for _, alias := range categoryAliases[cat] {
			if strings.Contains(label, alias) {
				return cat, true
			}
		}
	}
	return 0, false
}

// valuesByFamily maps table columns to family configuration keys by
// position.
func valuesByFamily(cells []string) map[string]float64 {
	out := make(map[string]float64)
	for i, key := range model.FamilyKeys() {
		if i >= len(cells) {
			break
		}
		if v, ok := ParseDollar(cells[i]); ok {
			out[key] = v
		}
	}
	return out
}

func tableRows(table *html.Node) [][]string {
	var rows [][]string
	for _, tr := range findElements(table, "tr") {
		var cells []string
		for _, cell := range findCells(tr) {
			cells = append(cells, nodeText(cell))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

func findCells(tr *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func findElements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// nodeText returns the subtree's text with whitespace collapsed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

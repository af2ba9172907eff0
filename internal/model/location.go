package model

import (
	"github.com/rotisserie/eris"
)

// ErrUnknownKind indicates a location kind outside {metro, county, state}.
var ErrUnknownKind = eris.New("unknown location kind")

// Kind classifies a location identifier.
type Kind string

const (
	KindMetro  Kind = "metro"  // CBSA code
	KindCounty Kind = "county" // county FIPS code
	KindState  Kind = "state"  // state FIPS code
)

// Kinds returns the location kinds in canonical (metro, county, state) order.
func Kinds() []Kind {
	return []Kind{KindMetro, KindCounty, KindState}
}

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindMetro, KindCounty, KindState:
		return Kind(s), nil
	}
	return "", eris.Wrapf(ErrUnknownKind, "%q", s)
}

// ID identifies a location by kind and code. Codes are unique within a kind.
type ID struct {
	Kind Kind   `json:"kind"`
	Code string `json:"code"`
}

func (id ID) String() string {
	return string(id.Kind) + "/" + id.Code
}

// Figures holds the wage requirements and annual expense breakdown for one
// (location, family configuration) pair.
type Figures struct {
	HourlyWage float64                `json:"hourly_wage"`
	Expenses   [NumCategories]float64 `json:"expenses"`
	BeforeTax  float64                `json:"before_tax"`
	AfterTax   float64                `json:"after_tax"`
	Taxes      float64                `json:"taxes"`
}

// ExpenseTotal returns the sum of all category expenses.
func (f Figures) ExpenseTotal() float64 {
	var total float64
	for _, v := range f.Expenses {
		total += v
	}
	return total
}

// LocationRecord is an immutable snapshot of one location's expenses and wage
// requirements under a single family configuration. Constructed once per run
// from fetched data, never mutated.
type LocationRecord struct {
	ID      ID           `json:"id"`
	Name    string       `json:"name"`
	Family  FamilyConfig `json:"family"`
	Figures Figures      `json:"figures"`
}

// Expense returns the annual dollar amount for one category.
func (r LocationRecord) Expense(c Category) float64 {
	return r.Figures.Expenses[c]
}

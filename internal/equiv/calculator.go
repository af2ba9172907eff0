// Package equiv translates an income earned in one location into an
// equivalent income in another, anchored on each location's required annual
// income before taxes for the same family configuration.
package equiv

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/colcmp/internal/model"
)

var (
	// ErrConfigMismatch indicates records built under different family
	// configurations.
	ErrConfigMismatch = eris.New("family configuration mismatch")

	// ErrDivisionByZero indicates a zero living-wage anchor or ratio
	// denominator.
	ErrDivisionByZero = eris.New("division by zero")

	// ErrInvalidExpenseData indicates expense figures outside a method's
	// numeric preconditions.
	ErrInvalidExpenseData = eris.New("invalid expense data")

	// ErrNonPositiveIncome indicates an income <= 0.
	ErrNonPositiveIncome = eris.New("income must be positive")
)

// elasticity is the fixed exponent of the log-linear method.
const elasticity = 0.75

// engelExponent controls how fast the housing share decays with income.
const engelExponent = 0.3

// Options adjusts a computation. Excluded categories are subtracted from
// both living-wage anchors so the ratio reflects only the included ones.
type Options struct {
	Exclude []model.Category
}

// Compute returns the income in b's locale equivalent to earning income in
// a's locale under the selected method. Both records must share a family
// configuration.
func Compute(m Method, income float64, a, b model.LocationRecord, opts Options) (float64, error) {
	if income <= 0 {
		return 0, eris.Wrapf(ErrNonPositiveIncome, "%.2f", income)
	}
	if a.Family.Key != b.Family.Key {
		return 0, eris.Wrapf(ErrConfigMismatch, "%s vs %s", a.Family.Key, b.Family.Key)
	}

	excluded := make(map[model.Category]bool, len(opts.Exclude))
	for _, c := range opts.Exclude {
		excluded[c] = true
	}

	lwA := adjustedAnchor(a, excluded)
	lwB := adjustedAnchor(b, excluded)

	switch m {
	case MethodLinear:
		return Linear(income, lwA, lwB)
	case MethodSqrt:
		return SqrtBlend(income, lwA, lwB)
	case MethodLogLinear:
		return LogLinear(income, lwA, lwB)
	case MethodEngel:
		if excluded[model.CategoryHousing] {
			return 0, eris.Wrap(ErrInvalidExpenseData, "engel: housing excluded")
		}
		return Engel(income, lwA, lwB, a.Expense(model.CategoryHousing), b.Expense(model.CategoryHousing))
	}
	return 0, eris.Wrapf(ErrUnknownMethod, "%q", string(m))
}

// adjustedAnchor subtracts excluded category expenses from the record's
// required income before taxes.
func adjustedAnchor(r model.LocationRecord, excluded map[model.Category]bool) float64 {
	lw := r.Figures.BeforeTax
	for c := range excluded {
		lw -= r.Expense(c)
	}
	return lw
}

func ratio(lwA, lwB float64) (float64, error) {
	if lwA == 0 {
		return 0, eris.Wrap(ErrDivisionByZero, "source living wage anchor is zero")
	}
	if lwA < 0 {
		return 0, eris.Wrapf(ErrInvalidExpenseData, "source anchor %.2f", lwA)
	}
	return lwB / lwA, nil
}

// Linear scales income by the living-wage ratio. Overstates the effect at
// high incomes.
func Linear(income, lwA, lwB float64) (float64, error) {
	r, err := ratio(lwA, lwB)
	if err != nil {
		return 0, err
	}
	return income * r, nil
}

// SqrtBlend moves the living-wage portion fully and dampens the excess by
// sqrt of the ratio. When income < lwA the excess term is negative, yielding
// a result below lwB; that is intentional, not clamped.
func SqrtBlend(income, lwA, lwB float64) (float64, error) {
	r, err := ratio(lwA, lwB)
	if err != nil {
		return 0, err
	}
	if r < 0 {
		return 0, eris.Wrapf(ErrInvalidExpenseData, "negative ratio %.4f", r)
	}
	return lwB + (income-lwA)*math.Sqrt(r), nil
}

// LogLinear applies a constant-elasticity adjustment: income * r^0.75.
// Requires r > 0.
func LogLinear(income, lwA, lwB float64) (float64, error) {
	r, err := ratio(lwA, lwB)
	if err != nil {
		return 0, err
	}
	if r <= 0 {
		return 0, eris.Wrapf(ErrInvalidExpenseData, "ratio %.4f not positive", r)
	}
	return income * math.Pow(r, elasticity), nil
}

// Engel splits the ratio into housing and non-housing components, weighting
// by a housing share that decays as income rises (Engel's law).
func Engel(income, lwA, lwB, housingA, housingB float64) (float64, error) {
	if lwA == 0 {
		return 0, eris.Wrap(ErrDivisionByZero, "source living wage anchor is zero")
	}
	if housingA <= 0 || housingA >= lwA {
		return 0, eris.Wrapf(ErrInvalidExpenseData, "housing %.2f outside (0, %.2f)", housingA, lwA)
	}
	if lwA-housingA <= 0 {
		return 0, eris.Wrap(ErrDivisionByZero, "non-housing anchor not positive")
	}

	share := engelHousingShare(income, lwA, housingA/lwA)
	housingRatio := housingB / housingA
	nonHousingRatio := (lwB - housingB) / (lwA - housingA)

	effective := share*housingRatio + (1-share)*nonHousingRatio
	return income * effective, nil
}

// engelHousingShare is the housing budget share at the given income, scaled
// down from the share at the living-wage level and clamped to [0, 1].
func engelHousingShare(income, lwA, shareAtLW float64) float64 {
	share := shareAtLW * math.Pow(lwA/income, engelExponent)
	if share < 0 {
		return 0
	}
	if share > 1 {
		return 1
	}
	return share
}

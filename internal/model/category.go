package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownCategory indicates a category name outside the closed set.
var ErrUnknownCategory = eris.New("unknown expense category")

// Category is one of the 8 annual expense categories tracked per location.
// The set and order are identical for every location, so per-category values
// are stored in arrays indexed by Category.
type Category int

const (
	CategoryFood Category = iota
	CategoryChildCare
	CategoryMedical
	CategoryHousing
	CategoryTransportation
	CategoryCivic
	CategoryInternetMobile
	CategoryOther

	NumCategories = int(CategoryOther) + 1
)

var categoryNames = [NumCategories]string{
	"Food",
	"Child Care",
	"Medical",
	"Housing",
	"Transportation",
	"Civic",
	"Internet & Mobile",
	"Other",
}

// String returns the canonical display name.
func (c Category) String() string {
	if c < 0 || int(c) >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Categories returns all categories in canonical order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ParseCategory resolves a user-supplied name to a Category,
// case-insensitively.
func ParseCategory(name string) (Category, error) {
	target := strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if strings.ToLower(n) == target {
			return Category(i), nil
		}
	}
	return 0, eris.Wrapf(ErrUnknownCategory, "%q", name)
}

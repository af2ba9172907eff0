package model

import (
	"github.com/rotisserie/eris"
)

// ErrInvalidFamilyConfig indicates a family configuration key outside the
// closed set of 12 supported household compositions.
var ErrInvalidFamilyConfig = eris.New("invalid family configuration")

// FamilyConfig describes one of the 12 supported household compositions.
type FamilyConfig struct {
	Key           string `json:"key"`
	Adults        int    `json:"adults"`
	WorkingAdults int    `json:"working_adults"`
	Children      int    `json:"children"`
}

// DefaultFamilyKey is the configuration used when the caller supplies none.
const DefaultFamilyKey = "1a0c"

// familyConfigs is the closed set of supported compositions, in the column
// order used by the data source's tables.
var familyConfigs = []FamilyConfig{
	{Key: "1a0c", Adults: 1, WorkingAdults: 1, Children: 0},
	{Key: "1a1c", Adults: 1, WorkingAdults: 1, Children: 1},
	{Key: "1a2c", Adults: 1, WorkingAdults: 1, Children: 2},
	{Key: "1a3c", Adults: 1, WorkingAdults: 1, Children: 3},
	{Key: "2a1w0c", Adults: 2, WorkingAdults: 1, Children: 0},
	{Key: "2a1w1c", Adults: 2, WorkingAdults: 1, Children: 1},
	{Key: "2a1w2c", Adults: 2, WorkingAdults: 1, Children: 2},
	{Key: "2a1w3c", Adults: 2, WorkingAdults: 1, Children: 3},
	{Key: "2a2w0c", Adults: 2, WorkingAdults: 2, Children: 0},
	{Key: "2a2w1c", Adults: 2, WorkingAdults: 2, Children: 1},
	{Key: "2a2w2c", Adults: 2, WorkingAdults: 2, Children: 2},
	{Key: "2a2w3c", Adults: 2, WorkingAdults: 2, Children: 3},
}

var familyByKey = func() map[string]FamilyConfig {
	m := make(map[string]FamilyConfig, len(familyConfigs))
	for _, fc := range familyConfigs {
		m[fc.Key] = fc
	}
	return m
}()

// ParseFamily validates key against the closed set of configurations.
func ParseFamily(key string) (FamilyConfig, error) {
	fc, ok := familyByKey[key]
	if !ok {
		return FamilyConfig{}, eris.Wrapf(ErrInvalidFamilyConfig, "unknown key %q", key)
	}
	return fc, nil
}

// DefaultFamily returns the 1-adult, 0-children configuration.
func DefaultFamily() FamilyConfig {
	return familyByKey[DefaultFamilyKey]
}

// Families returns all supported configurations in table column order.
func Families() []FamilyConfig {
	out := make([]FamilyConfig, len(familyConfigs))
	copy(out, familyConfigs)
	return out
}

// FamilyKeys returns the 12 configuration keys in table column order.
func FamilyKeys() []string {
	keys := make([]string, len(familyConfigs))
	for i, fc := range familyConfigs {
		keys[i] = fc.Key
	}
	return keys
}

// Label returns a human-readable description, e.g.
// "2 Adults (1 Working), 3 Children".
func (f FamilyConfig) Label() string {
	adults := "1 Adult"
	if f.Adults == 2 {
		if f.WorkingAdults == 1 {
			adults = "2 Adults (1 Working)"
		} else {
			adults = "2 Adults (Both Working)"
		}
	}
	children := "0 Children"
	switch f.Children {
	case 1:
		children = "1 Child"
	case 2:
		children = "2 Children"
	case 3:
		children = "3 Children"
	}
	return adults + ", " + children
}

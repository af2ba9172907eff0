package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 8)

	expected := []string{
		"Food", "Child Care", "Medical", "Housing",
		"Transportation", "Civic", "Internet & Mobile", "Other",
	}
	for i, c := range cats {
		assert.Equal(t, expected[i], c.String())
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Food", CategoryFood},
		{"food", CategoryFood},
		{"HOUSING", CategoryHousing},
		{"child care", CategoryChildCare},
		{"internet & mobile", CategoryInternetMobile},
		{"  Other  ", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategoryUnknown(t *testing.T) {
	for _, in := range []string{"", "rent", "childcare", "groceries"} {
		_, err := ParseCategory(in)
		assert.True(t, eris.Is(err, ErrUnknownCategory), "input %q", in)
	}
}

func TestCategoryStringOutOfRange(t *testing.T) {
	assert.Equal(t, "unknown", Category(-1).String())
	assert.Equal(t, "unknown", Category(NumCategories).String())
}

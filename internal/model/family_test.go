package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFamily(t *testing.T) {
	tests := []struct {
		key           string
		adults        int
		workingAdults int
		children      int
	}{
		{"1a0c", 1, 1, 0},
		{"1a3c", 1, 1, 3},
		{"2a1w0c", 2, 1, 0},
		{"2a1w2c", 2, 1, 2},
		{"2a2w0c", 2, 2, 0},
		{"2a2w3c", 2, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			fc, err := ParseFamily(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.key, fc.Key)
			assert.Equal(t, tt.adults, fc.Adults)
			assert.Equal(t, tt.workingAdults, fc.WorkingAdults)
			assert.Equal(t, tt.children, fc.Children)
		})
	}
}

func TestParseFamilyUnknownKey(t *testing.T) {
	for _, key := range []string{"", "3a0c", "2a3w0c", "1A0C", "1a0c "} {
		_, err := ParseFamily(key)
		assert.True(t, eris.Is(err, ErrInvalidFamilyConfig), "key %q", key)
	}
}

func TestFamilyInvariants(t *testing.T) {
	fams := Families()
	require.Len(t, fams, 12)

	seen := make(map[string]bool)
	for _, fc := range fams {
		assert.False(t, seen[fc.Key], "duplicate key %s", fc.Key)
		seen[fc.Key] = true
		assert.LessOrEqual(t, fc.WorkingAdults, fc.Adults, "key %s", fc.Key)
		assert.Positive(t, fc.WorkingAdults, "key %s", fc.Key)
	}
}

func TestDefaultFamily(t *testing.T) {
	fc := DefaultFamily()
	assert.Equal(t, "1a0c", fc.Key)
	assert.Equal(t, 1, fc.Adults)
	assert.Equal(t, 0, fc.Children)
}

func TestFamilyLabel(t *testing.T) {
	tests := []struct {
		key   string
		label string
	}{
		{"1a0c", "1 Adult, 0 Children"},
		{"1a1c", "1 Adult, 1 Child"},
		{"2a1w3c", "2 Adults (1 Working), 3 Children"},
		{"2a2w2c", "2 Adults (Both Working), 2 Children"},
	}

	for _, tt := range tests {
		fc, err := ParseFamily(tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.label, fc.Label())
	}
}

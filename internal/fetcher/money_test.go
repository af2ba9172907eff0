package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDollar(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,234", 1234, true},
		{"$1,234.56", 1234.56, true},
		{"$28.89", 28.89, true},
		{"17.70", 17.70, true},
		{" $45,906 ", 45906, true},
		{"−$120", -120, true}, // unicode minus
		{"–$120", -120, true}, // en dash
		{"-$120", -120, true},
		{"", 0, false},
		{"-", 0, false},
		{"N/A", 0, false},
		{"$", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDollar(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{"12kg", 12},
		{"  3.5 hours", 3.5},
		{".5", 0.5},
		{"5.", 5},
		{"-2", -2},
		{"+7", 7},
		{"1e3x", 1000},
		{"1e", 1},
		{"0x10", 0},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"1e999", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFloat(tt.in))
		})
	}
}

func TestParseFloatNaN(t *testing.T) {
	for _, in := range []string{"", "abc", "infinity", "-", ".", "e5"} {
		assert.True(t, math.IsNaN(parseFloat(in)), in)
	}
}

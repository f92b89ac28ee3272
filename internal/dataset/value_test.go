package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null{}, ""},
		{"string", String("hello"), "hello"},
		{"integer number", Number(3), "3"},
		{"decimal number", Number(2.5), "2.5"},
		{"negative", Number(-10), "-10"},
		{"large", Number(1e21), "1000000000000000000000"},
		{"nan", Number(math.NaN()), "NaN"},
		{"infinity", Number(math.Inf(1)), "Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValueIsMissing(t *testing.T) {
	assert.True(t, Null{}.IsMissing())
	assert.True(t, String("").IsMissing())
	assert.False(t, String(" ").IsMissing(), "whitespace is a value")
	assert.False(t, Number(0).IsMissing())
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(Null{}))
	assert.False(t, IsNull(String("")))
	assert.False(t, IsNull(Number(0)))
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"123", Number(123)},
		{"123.45", Number(123.45)},
		{"-100", Number(-100)},
		{"hello", String("hello")},
		{"", String("")},
		{"NaN", String("NaN")},
		{"inf", String("inf")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCell(tt.input), "ParseCell(%q)", tt.input)
	}
}

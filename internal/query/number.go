package query

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// parseFloat reads the longest leading decimal number of s after any
// leading whitespace, so "12kg" is 12 and "3.5 hours" is 3.5. It returns
// NaN when s does not start with a number; every ordered comparison with
// NaN is false.
func parseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := leadingNumber.FindString(s)
	if m == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out of range still yields ±Inf or 0.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

package validate

import (
	"strings"
	"unicode"
)

// parseLeadingInt reads an integer the lenient way spreadsheet users expect:
// leading whitespace is skipped, an optional sign is accepted, and digits
// are read up to the first non-digit ("3.7" → 3, "4abc" → 4). A "0x"
// prefix switches to hexadecimal. ok is false when no digit is found.
//
// Values that do not fit in an int64 saturate, which keeps them outside any
// small range check.
func parseLeadingInt(s string) (n int64, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := int64(10)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	const limit = int64(1) << 53
	digits := 0
	for i := 0; i < len(s); i++ {
		d, valid := digitValue(s[i], base)
		if !valid {
			break
		}
		digits++
		if n < limit {
			n = n*base + d
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func digitValue(c byte, base int64) (int64, bool) {
	var d int64
	switch {
	case c >= '0' && c <= '9':
		d = int64(c - '0')
	case c >= 'a' && c <= 'f':
		d = int64(c-'a') + 10
	case c >= 'A' && c <= 'F':
		d = int64(c-'A') + 10
	default:
		return 0, false
	}
	if d >= base {
		return 0, false
	}
	return d, true
}

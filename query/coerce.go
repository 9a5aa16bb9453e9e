package query

import (
	"strconv"
	"strings"
)

// TryInt parses text as a base-10 integer with an optional leading sign.
// Surrounding whitespace is ignored. ok is false for anything else,
// including values that overflow int64.
func TryInt(text string) (int64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	digits := s
	if digits[0] == '+' || digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// TryFloat parses text as a floating point literal (integers, decimals and
// exponents). Surrounding whitespace is ignored.
func TryFloat(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// TextValue returns the text stored under key. ok is false when the key is
// missing or the value is nil.
func TextValue(row Row, key string) (string, bool) {
	v, exists := row[key]
	if !exists || v == nil {
		return "", false
	}
	if s, isStr := v.(string); isStr {
		return s, true
	}
	return toText(v), true
}

// IntValue returns the integer stored under key, if it coerces.
func IntValue(row Row, key string) (int64, bool) {
	s, ok := TextValue(row, key)
	if !ok {
		return 0, false
	}
	return TryInt(s)
}

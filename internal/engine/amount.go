package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value in cents. Settlement arithmetic stays exact on
// integers; two-decimal strings exist only at the parse/format boundary.
type Amount int64

// ParseAmount converts a user-supplied decimal string ("800", "901.50") to
// cents. A blank string parses to zero, which propose treats as "offer at
// the current rate". Negative values parse fine; callers decide whether a
// negative amount is acceptable in their position.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return Amount(math.Round(v * 100)), nil
}

// String renders the amount with two decimals, e.g. "901.50" or "-1.97".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

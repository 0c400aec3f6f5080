package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Ratio is a payout ratio such as 3:2 or 2:1, applied to integer stakes
// with truncating division.
type Ratio struct {
	Numerator   int
	Denominator int
}

// ParseRatio parses "N:D" into a Ratio.
func ParseRatio(s string) (Ratio, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Ratio{}, fmt.Errorf("invalid ratio %q: expected N:D", s)
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio numerator %q: %w", parts[0], err)
	}
	den, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio denominator %q: %w", parts[1], err)
	}
	if num <= 0 || den <= 0 {
		return Ratio{}, fmt.Errorf("ratio %q must be positive", s)
	}
	return Ratio{Numerator: num, Denominator: den}, nil
}

// MustParseRatio is ParseRatio for compile-time constants; it panics on
// malformed input.
func MustParseRatio(s string) Ratio {
	r, err := ParseRatio(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Apply scales an amount by the ratio, truncating fractional cents.
func (r Ratio) Apply(amount int) int {
	if r.Denominator == 0 {
		return 0
	}
	return amount * r.Numerator / r.Denominator
}

// Float returns the ratio as a float for display purposes.
func (r Ratio) Float() float64 {
	if r.Denominator == 0 {
		return 0
	}
	return float64(r.Numerator) / float64(r.Denominator)
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Numerator, r.Denominator)
}

// Package dice provides the randomness abstraction used by power balancing
// and scenario scripts.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Source is the randomness provider.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// MaxCount is the largest die count Parse accepts.
const MaxCount = 1000

// Expression is a parsed "NdS+M" roll.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// Parse parses "d20", "3d6", "2d6+3" or "4d8-2".
//
// Postcondition: on success 1 <= Count <= MaxCount and Sides >= 2.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	count, rest, ok := strings.Cut(s, "d")
	if !ok {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}
	e := Expression{Raw: expr, Count: 1}
	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil || n < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q", expr)
		}
		if n > MaxCount {
			return Expression{}, fmt.Errorf("dice: die count in %q exceeds %d", expr, MaxCount)
		}
		e.Count = n
	}

	sides := rest
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sides = rest[:i]
		mod, err := strconv.Atoi(rest[i:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
		e.Modifier = mod
	}
	n, err := strconv.Atoi(sides)
	if err != nil || n < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q", expr)
	}
	e.Sides = n
	return e, nil
}

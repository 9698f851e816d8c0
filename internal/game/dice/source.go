package dice

import (
	"crypto/rand"
	"math/big"
)

const float64Precision = 1 << 53

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics if n <= 0 or crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a uniformly distributed float in [0, 1) with 53 bits of
// precision.
func (c *cryptoSource) Float64() float64 {
	return float64(c.Intn(float64Precision)) / float64Precision
}

// FixedSource always returns the same values. It pins randomness in tests
// and reproducible scenarios.
type FixedSource struct {
	// F is returned by Float64; clamped into [0, 1).
	F float64
	// N is returned by Intn, reduced modulo n.
	N int
}

// Intn returns N mod n.
func (f FixedSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	v := f.N % n
	if v < 0 {
		v += n
	}
	return v
}

// Float64 returns F clamped into [0, 1).
func (f FixedSource) Float64() float64 {
	switch {
	case f.F < 0:
		return 0
	case f.F >= 1:
		return 1 - 1.0/float64Precision
	}
	return f.F
}

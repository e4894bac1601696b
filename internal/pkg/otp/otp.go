package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Digits is the fixed width of generated codes.
const Digits = 6

var codeSpace = big.NewInt(1_000_000)

// Generate returns a zero-padded 6-digit code drawn uniformly from
// [0, 999999] using crypto/rand. A failing system random source is a fatal
// condition, so this panics rather than returning an error.
func Generate() string {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		panic("otp: system random source unavailable: " + err.Error())
	}
	return fmt.Sprintf("%06d", n.Int64())
}

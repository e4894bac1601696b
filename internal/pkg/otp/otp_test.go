package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_WidthAndCharset(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := Generate()
		assert.Len(t, code, Digits)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "unexpected character %q in %q", c, code)
		}
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[Generate()] = true
	}
	// 50 draws from a million values colliding into one would mean a broken source.
	assert.Greater(t, len(seen), 1)
}

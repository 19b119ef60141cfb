package util

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// HasPrefixes returns true if the string s has any of the given prefixes.
func HasPrefixes(src string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(src, prefix) {
			return true
		}
	}
	return false
}

var base36 = []rune("0123456789abcdefghijklmnopqrstuvwxyz")

// RandomBase36 returns a random base-36 string with length n.
func RandomBase36(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		// The reason for using crypto/rand instead of math/rand is that
		// the former relies on hardware to generate random numbers and
		// thus has a stronger source of random numbers.
		randNum, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			// Out of entropy is not recoverable here.
			panic(err)
		}
		sb.WriteRune(base36[randNum.Uint64()])
	}
	return sb.String()
}

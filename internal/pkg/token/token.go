package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Digits returns a uniformly random n-digit decimal string with no leading
// zero, i.e. a value in [10^(n-1), 10^n - 1].
func Digits(n int) (string, error) {
	if n < 1 || n > 18 {
		return "", fmt.Errorf("digits: unsupported length %d", n)
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))
	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate digits: %w", err)
	}
	return v.Add(v, low).String(), nil
}

// Suffix returns n random lowercase alphanumeric characters.
func Suffix(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(suffixAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate suffix: %w", err)
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b), nil
}

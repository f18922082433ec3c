package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeSpan covers the six-digit range [100000, 999999].
var codeSpan = big.NewInt(900000)

// GenerateCode returns a uniformly random six-digit decimal code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// README: Payment code generation and normalization.
package order

import (
	"crypto/rand"
	"strings"
)

// Codes have the shape ABC-1234-XYZ: 26^3 * 10^4 * 26^3 combinations, so a
// collision against the handful of live codes is vanishingly unlikely.
// Uniqueness is still checked against every code attached to a non-cancelled
// order, regenerating on collision.

func randLetters(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	out := make([]byte, n)
	for i, v := range b {
		out[i] = 'A' + v%26
	}
	return string(out)
}

func randDigits(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	out := make([]byte, n)
	for i, v := range b {
		out[i] = '0' + v%10
	}
	return string(out)
}

// GeneratePaymentCode produces a fresh code not present in inUse.
func GeneratePaymentCode(inUse map[string]struct{}) string {
	for {
		code := randLetters(3) + "-" + randDigits(4) + "-" + randLetters(3)
		if _, taken := inUse[code]; !taken {
			return code
		}
	}
}

// NormalizeCode canonicalizes staff input before lookup.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

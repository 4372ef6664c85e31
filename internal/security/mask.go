// Package security holds credential-handling helpers: masking for anything
// that leaves the trust boundary toward a client view, and AES-GCM
// envelope encryption for credentials at rest.
package security

import "strings"

const (
	// maskKeepRunes is how many runes survive at each end of a masked
	// secret.
	maskKeepRunes = 4
	// maskChar replaces the hidden middle of a secret.
	maskChar = "*"
)

// MaskSecret returns a masked form of secret with the same rune length:
// the first and last four runes are preserved and everything between is
// replaced with '*'. Secrets too short to safely expose a prefix and
// suffix (fewer than 8 runes) are masked entirely. Empty input stays
// empty.
func MaskSecret(secret string) string {
	runes := []rune(secret)
	n := len(runes)
	if n == 0 {
		return ""
	}
	if n < 2*maskKeepRunes {
		return strings.Repeat(maskChar, n)
	}
	var b strings.Builder
	b.Grow(n)
	b.WriteString(string(runes[:maskKeepRunes]))
	b.WriteString(strings.Repeat(maskChar, n-2*maskKeepRunes))
	b.WriteString(string(runes[n-maskKeepRunes:]))
	return b.String()
}

package identity

import (
	"fmt"
	"strings"
)

// NormalizePhone reduces a transport sender address (e.g. "whatsapp:+5511999998888")
// to the canonical phone key used as the unique user identifier: digits only,
// prefixed with the default country code when it is missing.
func NormalizePhone(raw, countryCode string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", fmt.Errorf("sender address %q contains no digits", raw)
	}
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return digits, nil
}

package parse

import (
	"fmt"
	"net/mail"
	"strings"
)

// Email trims and lower-cases raw and checks that it is a bare address.
// Display-name forms such as "Ana <ana@example.com>" are rejected.
func Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("invalid email address: %q", raw)
	}
	return email, nil
}

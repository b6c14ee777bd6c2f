// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	phoneRegex      = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// ValidatePhone accepts an E.164 number, optionally written with spaces,
// dashes, dots or a parenthesised area code, e.g. "+1 (555) 010-0199".
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phoneSeparators.Replace(phone))
}

// NormalizeEmail lower-cases the domain part and keeps the local part as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var ghanaCardPattern = regexp.MustCompile(`^GHA-\d{9}-\d$`)

// ValidGhanaCard reports whether id has the GHA-XXXXXXXXX-X layout.
func ValidGhanaCard(id string) bool {
	return ghanaCardPattern.MatchString(id)
}

// GhanaCardCheckDigit returns the simplified check digit used by the intake
// form: the sum of the nine digits modulo 10.
func GhanaCardCheckDigit(digits string) int {
	sum := 0
	for _, d := range digits {
		if d >= '0' && d <= '9' {
			sum += int(d - '0')
		}
	}
	return sum % 10
}

// FormatGhanaCard normalises free-form input into the card layout. Only the
// first nine digits are kept; the check digit is appended once all nine are
// present.
func FormatGhanaCard(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 9 {
				break
			}
		}
	}
	digits := b.String()

	formatted := "GHA-" + digits
	if len(digits) == 9 {
		formatted += "-" + strconv.Itoa(GhanaCardCheckDigit(digits))
	}
	return formatted
}

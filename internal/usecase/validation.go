package usecase

import (
	"regexp"
	"strings"
	"unicode"
)

var importURLPattern = regexp.MustCompile(`(?i)^https?://.+`)

func isValidImportURL(link string) bool {
	return importURLPattern.MatchString(link)
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isValidPhone(digits string) bool {
	return len(digits) == 10
}

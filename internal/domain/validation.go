package domain

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// Пароль: мин 8, буквы в разных регистрах, >=1 цифра
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

// NormalizeEmail приводит email к каноническому виду (lowercase).
// Уникальность соблюдается уже по нормализованному значению.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	return upperRe.MatchString(s) && lowerRe.MatchString(s) && digitRe.MatchString(s)
}

package patient

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidSNILS reports input that does not reduce to 11 digits.
var ErrInvalidSNILS = errors.New("snils must contain exactly 11 digits")

// snilsPattern accepts the canonical display form XXX-XXX-XXX XX, bare
// digits, or digit groups separated by single dashes or spaces. Digits
// interleaved with other characters are rejected before stripping.
var snilsPattern = regexp.MustCompile(`^\d{3}[- ]?\d{3}[- ]?\d{3}[- ]?\d{2}$`)

// NormalizeSNILS checks the input against the canonical pattern, strips the
// separators and re-validates as exactly 11 digits. Normalization is
// idempotent: an already-normalized value passes through unchanged.
func NormalizeSNILS(raw string) (string, error) {
	if !snilsPattern.MatchString(raw) {
		return "", ErrInvalidSNILS
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 11 {
		return "", ErrInvalidSNILS
	}
	return digits, nil
}

// FormatSNILS renders normalized digits in the display form XXX-XXX-XXX XX.
// Non-normalized input is returned unchanged.
func FormatSNILS(digits string) string {
	if len(digits) != 11 {
		return digits
	}
	return digits[0:3] + "-" + digits[3:6] + "-" + digits[6:9] + " " + digits[9:11]
}

// Age returns whole years plus remainder months between birth date and now.
func Age(birth, now time.Time) (years, months int) {
	if now.Before(birth) {
		return 0, 0
	}
	years = now.Year() - birth.Year()
	months = int(now.Month()) - int(birth.Month())
	if now.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}
	return years, months
}

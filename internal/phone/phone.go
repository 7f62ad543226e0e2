// Package phone validates and normalizes Sri Lankan mobile numbers.
package phone

import (
	"regexp"
	"strings"
)

const (
	// CountryCode is the Sri Lankan international dialing code.
	CountryCode = "94"
	// trunkPrefix is the local dialing prefix replaced by the country code.
	trunkPrefix = "0"
	// displayPlaceholder is returned by FormatDisplay for empty input.
	displayPlaceholder = "N/A"
)

// Accepted mobile shapes after cleaning: local 07XXXXXXXX, or
// international 947XXXXXXXX with or without a leading plus.
var (
	localMobile = regexp.MustCompile(`^07[0-9]{8}$`)
	intlMobile  = regexp.MustCompile(`^\+?947[0-9]{8}$`)

	nonDialable = strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "")
)

// IsValidMobile reports whether raw is a Sri Lankan mobile number in one of
// the accepted shapes. Whitespace, hyphens, and parentheses are ignored.
// Empty input is invalid.
func IsValidMobile(raw string) bool {
	cleaned := nonDialable.Replace(raw)
	if cleaned == "" {
		return false
	}
	return localMobile.MatchString(cleaned) || intlMobile.MatchString(cleaned)
}

// CanonicalDigits converts raw to the digit-only international form used in
// messaging links: non-digit characters are stripped, a leading trunk zero is
// replaced with the country code, and the country code is prepended when
// missing. It does not validate; gate on IsValidMobile first when the source
// number matters. Empty input yields an empty string.
func CanonicalDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, trunkPrefix) {
		return CountryCode + digits[len(trunkPrefix):]
	}
	if !strings.HasPrefix(digits, CountryCode) {
		return CountryCode + digits
	}
	return digits
}

// FormatDisplay renders a 10-digit local-form number as "0XX XXX XXXX".
// Other shapes are returned unchanged; empty input yields a placeholder.
// Re-formatting an already formatted number regroups to the same string,
// so the function is idempotent.
func FormatDisplay(raw string) string {
	if raw == "" {
		return displayPlaceholder
	}
	cleaned := nonDialable.Replace(raw)
	if len(cleaned) != 10 || !strings.HasPrefix(cleaned, trunkPrefix) {
		return raw
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return raw
		}
	}
	return cleaned[:3] + " " + cleaned[3:6] + " " + cleaned[6:]
}

package extract

import (
	"strings"
	"unicode"
)

// FirstName reduces a scraped full name to the name the message should open
// with. Handles "Surname, Given" listings and trailing middle names. Returns
// "" when nothing usable remains.
func FirstName(raw string) string {
	s := trimmed(raw)
	if i := strings.IndexByte(s, ','); i >= 0 {
		// "SMITH, Pamela" — the given name follows the comma.
		s = strings.TrimSpace(s[i+1:])
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Suburb pulls the suburb out of a single-line postal address such as
// "12 Foo St, North Brighton VIC 3186": take the last comma-separated
// segment and drop trailing state abbreviations and postcodes.
func Suburb(raw string) string {
	s := trimmed(raw)
	if s == "" {
		return ""
	}
	if i := strings.LastIndexByte(s, ','); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}

	fields := strings.Fields(s)
	for len(fields) > 0 {
		last := fields[len(fields)-1]
		if isPostcode(last) || isStateAbbrev(last) {
			fields = fields[:len(fields)-1]
			continue
		}
		break
	}
	return strings.Join(fields, " ")
}

// NormalizePhone strips formatting from a phone number and rewrites a
// leading "0" with the configured country prefix. A leading "+" survives.
// Returns "" when fewer than 6 digits remain — not a usable recipient.
func NormalizePhone(raw, prefix string) string {
	var b strings.Builder
	for i, r := range trimmed(raw) {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	s := b.String()

	digits := strings.TrimPrefix(s, "+")
	if len(digits) < 6 {
		return ""
	}
	if strings.HasPrefix(s, "0") && prefix != "" {
		return prefix + s[1:]
	}
	return s
}

func isPostcode(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isStateAbbrev(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func trimmed(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

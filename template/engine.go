// Package template implements the outbound-message template engine: total
// placeholder substitution plus the escape-then-highlight transform used to
// render previews inside the injected dialog.
//
// Placeholders are bracket-delimited tokens, e.g. [their name] or [suburb].
// Token matching is case-insensitive and whitespace-insensitive inside the
// brackets, so [Their  Name] and "their name" refer to the same field.
//
// This is the public API contract of domgraft: anything that prepares fields
// for a message, or renders a stored body, goes through this package.
package template

import (
	"html"
	"regexp"
	"strings"
)

// DefaultBody is the compiled-in fallback used when no template has been
// stored for the current list. Unresolved placeholders survive substitution
// verbatim so the sender can fill them by hand.
const DefaultBody = `Hi [their name], it's [volunteer] here from the local campaign. ` +
	`We're talking to voters across [electorate] ([suburb]) this week and ` +
	`I'd love to hear what matters most to you. Reply STOP to opt out.`

// placeholderRe matches one bracket-delimited token. Nested or empty
// brackets are not tokens.
var placeholderRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Fill replaces every occurrence of each recognised placeholder in body with
// the corresponding field value. Placeholders with no matching field are left
// unchanged — an unresolved token is valid output, not an error, so Fill is
// total and never fails.
func Fill(body string, fields map[string]string) string {
	if len(fields) == 0 {
		return body
	}

	norm := make(map[string]string, len(fields))
	for k, v := range fields {
		norm[normalizeKey(k)] = v
	}

	return placeholderRe.ReplaceAllStringFunc(body, func(tok string) string {
		key := normalizeKey(tok[1 : len(tok)-1])
		if v, ok := norm[key]; ok {
			return v
		}
		return tok
	})
}

// Highlight renders text for safe embedding in the preview surface. It
// escapes structural HTML characters first, then wraps every surviving
// bracket token in a highlight span, then converts newlines to <br>.
//
// Escaping must precede wrapping: the other order would escape the wrapper
// markup itself.
func Highlight(text string) string {
	escaped := html.EscapeString(text)
	marked := placeholderRe.ReplaceAllString(escaped, `<span class="domgraft-ph">$0</span>`)
	return strings.ReplaceAll(marked, "\n", "<br>")
}

// Placeholders returns the distinct placeholder names in body, normalised,
// in order of first appearance. The dialog uses this to hint which fields
// remain available.
func Placeholders(body string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		key := normalizeKey(m[1])
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// normalizeKey lowercases and collapses internal whitespace so token and
// field names compare equal regardless of casing and spacing.
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

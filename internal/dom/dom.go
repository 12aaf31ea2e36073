// Package dom abstracts the host document behind a small query/mutate
// interface. The reconciler and dialog controller never hold node
// references: identity is always re-derived by selector query, because the
// host application may discard and recreate any subtree between ticks.
//
// Two implementations exist: Live drives a real page over CDP, Parsed
// operates on an in-memory golang.org/x/net/html tree (tests, snapshot
// tooling).
package dom

import "errors"

// ErrNoAnchor is returned by AppendHTML when the anchor selector matches
// nothing. Callers treat it as "host structure missing this tick".
var ErrNoAnchor = errors.New("dom: anchor not found")

// DOM is the host-document surface. Queries are bounded by the number of
// matches, not by document size. Write access is limited to appending and
// removing domgraft-owned nodes and setting attributes on explicitly
// documented anchors.
type DOM interface {
	// Count returns the number of elements matching sel.
	Count(sel string) int

	// Text returns the trimmed text content of the first match.
	Text(sel string) (string, bool)

	// Attr returns the value of the named attribute on the first match.
	Attr(sel, name string) (string, bool)

	// AppendHTML parses fragment and appends it to the first match of
	// anchorSel. Returns ErrNoAnchor when the anchor is absent.
	AppendHTML(anchorSel, fragment string) error

	// SetAttr sets the named attribute on every match of sel.
	SetAttr(sel, name, value string) error

	// Remove detaches every match of sel from the document.
	Remove(sel string) error

	// ArmDismiss registers the dialog cancellation-key listener and focus
	// trap identified by token. DisarmDismiss releases exactly the listener
	// registered under that token. One Open must arm exactly once; one
	// Close must disarm exactly once.
	ArmDismiss(token string) error
	DisarmDismiss(token string) error
}

package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Parsed is a DOM over an in-memory golang.org/x/net/html tree. It backs
// tests and snapshot tooling; mutation helpers double as the "host
// re-render" simulator in reconciler tests.
type Parsed struct {
	doc   *html.Node
	armed map[string]bool
}

// ParseString builds a Parsed document from raw HTML.
func ParseString(raw string) (*Parsed, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Parsed{doc: doc, armed: make(map[string]bool)}, nil
}

func (p *Parsed) Count(sel string) int {
	return len(querySelectorAll(p.doc, sel))
}

func (p *Parsed) Text(sel string) (string, bool) {
	n := querySelector(p.doc, sel)
	if n == nil {
		return "", false
	}
	return collectText(n), true
}

func (p *Parsed) Attr(sel, name string) (string, bool) {
	n := querySelector(p.doc, sel)
	if n == nil {
		return "", false
	}
	if !hasAttr(n, name) {
		return "", false
	}
	return getAttr(n, name), true
}

func (p *Parsed) AppendHTML(anchorSel, fragment string) error {
	anchor := querySelector(p.doc, anchorSel)
	if anchor == nil {
		return ErrNoAnchor
	}

	// ParseFragment wants a bare context element, not one wired into a tree.
	ctxNode := &html.Node{
		Type:     html.ElementNode,
		Data:     anchor.Data,
		DataAtom: anchor.DataAtom,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctxNode)
	if err != nil {
		return fmt.Errorf("dom: parse fragment: %w", err)
	}
	for _, n := range nodes {
		anchor.AppendChild(n)
	}
	return nil
}

func (p *Parsed) SetAttr(sel, name, value string) error {
	for _, n := range querySelectorAll(p.doc, sel) {
		setAttr(n, name, value)
	}
	return nil
}

func (p *Parsed) Remove(sel string) error {
	matches := querySelectorAll(p.doc, sel)
	for _, n := range matches {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return nil
}

func (p *Parsed) ArmDismiss(token string) error {
	p.armed[token] = true
	return nil
}

func (p *Parsed) DisarmDismiss(token string) error {
	delete(p.armed, token)
	return nil
}

// ArmedDismissCount reports how many dismiss listeners are currently
// registered. Anything other than 0 (closed) or 1 (open) is a leak.
func (p *Parsed) ArmedDismissCount() int {
	return len(p.armed)
}

// Render serialises the current tree, for assertions.
func (p *Parsed) Render() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, p.doc); err != nil {
		return ""
	}
	return buf.String()
}

func setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// collectText concatenates the text nodes under n, whitespace-collapsed.
func collectText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

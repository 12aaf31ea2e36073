// Package extract derives the current page context — which list the user is
// viewing plus the template fields scraped from it. Extraction is a pure
// function of current document state: nothing is cached, and a missing field
// is an absent map entry, not an error.
package extract

import (
	"errors"

	"github.com/hazyhaar/domgraft/internal/dom"
)

// ErrUnavailable means the required anchor structure is not present this
// tick — the host has not rendered yet, or the user navigated away. Callers
// no-op silently and retry on the next change notification.
var ErrUnavailable = errors.New("extract: required page structure not present")

// Context describes what the user is currently viewing. ID is stable for as
// long as the same record is open; a change in ID between ticks signals a
// context transition. Fields map placeholder names to scraped values.
type Context struct {
	ID     string
	Label  string
	Fields map[string]string
}

// Field configures one scraped placeholder value.
type Field struct {
	// Placeholder is the template token this field fills, e.g. "their name".
	Placeholder string `yaml:"placeholder"`
	// Selector locates the source element.
	Selector string `yaml:"selector"`
	// Attr reads an attribute instead of text content when set.
	Attr string `yaml:"attr,omitempty"`
	// Transform is one of "", "text", "first", "suburb", "phone".
	Transform string `yaml:"transform,omitempty"`
}

// Config is the page-specific extraction glue: which selectors identify the
// current list and supply template fields. Markup knowledge lives entirely
// here, not in code.
type Config struct {
	IDSelector    string  `yaml:"id_selector"`
	IDAttr        string  `yaml:"id_attr,omitempty"`
	LabelSelector string  `yaml:"label_selector"`
	Fields        []Field `yaml:"fields"`
	// PhonePrefix replaces a leading "0" during phone normalisation.
	PhonePrefix string `yaml:"phone_prefix,omitempty"`
}

func (c *Config) applyDefaults() {
	if c.PhonePrefix == "" {
		c.PhonePrefix = "+61"
	}
}

// Extract reads the current document and derives a Context. Returns
// ErrUnavailable when the ID anchor is missing; partial fields are valid.
func Extract(d dom.DOM, cfg Config) (*Context, error) {
	cfg.applyDefaults()

	id, ok := value(d, cfg.IDSelector, cfg.IDAttr)
	if !ok || id == "" {
		return nil, ErrUnavailable
	}

	ctx := &Context{ID: id, Fields: make(map[string]string)}

	if label, ok := value(d, cfg.LabelSelector, ""); ok {
		ctx.Label = label
	}

	for _, f := range cfg.Fields {
		raw, ok := value(d, f.Selector, f.Attr)
		if !ok {
			continue
		}
		v := transform(f.Transform, raw, cfg.PhonePrefix)
		if v != "" {
			ctx.Fields[f.Placeholder] = v
		}
	}

	return ctx, nil
}

func value(d dom.DOM, sel, attr string) (string, bool) {
	if sel == "" {
		return "", false
	}
	if attr != "" {
		return d.Attr(sel, attr)
	}
	return d.Text(sel)
}

func transform(name, raw, phonePrefix string) string {
	switch name {
	case "first":
		return FirstName(raw)
	case "suburb":
		return Suburb(raw)
	case "phone":
		return NormalizePhone(raw, phonePrefix)
	default:
		return trimmed(raw)
	}
}

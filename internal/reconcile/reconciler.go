// Package reconcile keeps the injected UI alive and correct across an
// externally re-rendered document. Each tick re-derives element identity by
// marker query, repairs anything the host discarded, and detects context
// transitions.
package reconcile

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/domgraft/internal/dom"
	"github.com/hazyhaar/domgraft/internal/extract"
	"github.com/hazyhaar/domgraft/store"
)

// TemplateSource is the slice of the store the reconciler needs: the
// "has template" indicator and the label-mismatch check.
type TemplateSource interface {
	GetWithFallback(ctx context.Context, key string) (*store.TemplateRecord, error)
}

// Config locates the injection anchors on the host page.
type Config struct {
	// ButtonAnchor is the heading container that hosts the injected
	// buttons and badge.
	ButtonAnchor string `yaml:"button_anchor"`
	// AnchorStyle is applied to ButtonAnchor so injected controls sit
	// inline with the heading. This is the single documented mutation of a
	// host-owned node; empty disables it.
	AnchorStyle string `yaml:"anchor_style,omitempty"`

	Extract extract.Config `yaml:"extract"`
}

func (c *Config) applyDefaults() {
	if c.AnchorStyle == "" {
		c.AnchorStyle = "display:flex;align-items:center"
	}
}

// Reconciler owns the injected elements. Not safe for concurrent use: all
// calls happen on the consumer-loop goroutine.
type Reconciler struct {
	dom     dom.DOM
	store   TemplateSource
	cfg     Config
	session *Session
	logger  *slog.Logger

	current *extract.Context
}

// tick carries the state derived once per reconciliation pass.
type tick struct {
	page        *extract.Context
	hasTemplate bool
}

// New creates a Reconciler.
func New(d dom.DOM, ts TemplateSource, cfg Config, session *Session, logger *slog.Logger) *Reconciler {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		dom:     d,
		store:   ts,
		cfg:     cfg,
		session: session,
		logger:  logger,
	}
}

// Current returns the context derived by the most recent successful tick,
// or nil before the host has rendered. The dialog controller uses it when
// an injected button is clicked.
func (r *Reconciler) Current() *extract.Context {
	return r.current
}

// Tick runs one reconciliation pass. Best effort: when required structure
// is missing it returns without touching anything and without raising —
// the next change notification retries naturally. Safe to run back-to-back;
// a second pass with no intervening host mutation changes nothing.
func (r *Reconciler) Tick(ctx context.Context) {
	page, err := extract.Extract(r.dom, r.cfg.Extract)
	if err != nil {
		r.logger.Debug("reconcile: page structure unavailable")
		return
	}

	if page.ID != r.session.LastContextID {
		r.handleContextChange(page)
	}
	r.current = page

	t := &tick{page: page}
	rec, err := r.store.GetWithFallback(ctx, page.ID)
	if err != nil {
		r.logger.Warn("reconcile: template lookup failed", "error", err)
	}
	t.hasTemplate = rec != nil

	// Renamed or reused list: stored label no longer matches the live one.
	if rec != nil && rec.Key == page.ID &&
		rec.Label != "" && page.Label != "" && rec.Label != page.Label {
		r.session.FlagLabelWarning()
	}

	r.ensureElements(t)
}

// handleContextChange resets injected state when the user navigates to a
// different list. Elements are removed and recreated rather than patched —
// they may be bound to stale identifiers.
func (r *Reconciler) handleContextChange(page *extract.Context) {
	r.logger.Info("reconcile: context changed",
		"from", r.session.LastContextID, "to", page.ID)
	r.session.LastContextID = page.ID

	for _, k := range kinds {
		r.dom.Remove(markerSel(k.marker))
	}
}

// ensureElements enforces the per-kind invariant: exactly one live instance,
// rendered with current state. Detached counts as absent; duplicates are
// pruned and recreated.
func (r *Reconciler) ensureElements(t *tick) {
	for _, k := range kinds {
		anchor := k.anchor(r)
		if anchor == "" || r.dom.Count(anchor) == 0 {
			continue
		}

		sel := markerSel(k.marker)
		want := k.state(t)

		switch n := r.dom.Count(sel); {
		case n == 0:
			// Absent or discarded by a host re-render.
		case n > 1:
			r.dom.Remove(sel)
		default:
			got, _ := r.dom.Attr(sel, stateAttr)
			if got == want {
				continue
			}
			r.dom.Remove(sel)
		}

		if anchor == r.cfg.ButtonAnchor && r.cfg.AnchorStyle != "" {
			r.dom.SetAttr(anchor, "style", r.cfg.AnchorStyle)
		}
		if err := r.dom.AppendHTML(anchor, k.render(t, want)); err != nil {
			r.logger.Debug("reconcile: inject failed",
				"marker", k.marker, "error", err)
		}
	}
}

package reconcile

import (
	"fmt"
	"html"
)

// MarkerAttr identifies every node domgraft owns. Element identity is
// established by this attribute, never by held node references: the host
// may discard and recreate any ancestor between ticks.
const MarkerAttr = "data-domgraft"

// stateAttr carries the derived state an injected element was rendered
// with. A mismatch against the freshly derived state means the element is
// stale and gets recreated.
const stateAttr = "data-domgraft-state"

// Injected element markers.
const (
	MarkerStyle       = "style"
	MarkerTemplateBtn = "template-btn"
	MarkerComposeBtn  = "compose-btn"
	MarkerBadge       = "badge"
	MarkerDialog      = "dialog"
)

// elementKind describes one injected control: where it anchors, how to
// derive its state, and how to render it.
type elementKind struct {
	marker string
	// anchor returns the anchor selector; empty means "skip this tick".
	anchor func(r *Reconciler) string
	// state derives the element's state token from the current tick.
	state func(t *tick) string
	// render builds the fragment for the given state.
	render func(t *tick, state string) string
}

func markerSel(marker string) string {
	return fmt.Sprintf("[%s=%q]", MarkerAttr, marker)
}

// kinds is the full set of reconciled elements, in injection order.
var kinds = []elementKind{
	{
		marker: MarkerStyle,
		anchor: func(r *Reconciler) string { return "body" },
		state:  func(t *tick) string { return "static" },
		render: func(t *tick, state string) string {
			return fmt.Sprintf("<style %s=%q %s=%q>%s</style>",
				MarkerAttr, MarkerStyle, stateAttr, state, baseCSS)
		},
	},
	{
		marker: MarkerTemplateBtn,
		anchor: func(r *Reconciler) string { return r.cfg.ButtonAnchor },
		state: func(t *tick) string {
			if t.hasTemplate {
				return "set"
			}
			return "unset"
		},
		render: func(t *tick, state string) string {
			label := "Set template"
			if state == "set" {
				label = "Edit template"
			}
			return fmt.Sprintf(
				`<button %s=%q %s=%q class="domgraft-btn" onclick="window.__domgraft.ui('template')">%s</button>`,
				MarkerAttr, MarkerTemplateBtn, stateAttr, state, label)
		},
	},
	{
		marker: MarkerComposeBtn,
		anchor: func(r *Reconciler) string { return r.cfg.ButtonAnchor },
		state:  func(t *tick) string { return "static" },
		render: func(t *tick, state string) string {
			return fmt.Sprintf(
				`<button %s=%q %s=%q class="domgraft-btn domgraft-btn-primary" onclick="window.__domgraft.ui('compose')">Send SMS</button>`,
				MarkerAttr, MarkerComposeBtn, stateAttr, state)
		},
	},
	{
		marker: MarkerBadge,
		anchor: func(r *Reconciler) string { return r.cfg.ButtonAnchor },
		state: func(t *tick) string {
			if t.hasTemplate {
				return "set"
			}
			return "unset"
		},
		render: func(t *tick, state string) string {
			text := "no template"
			if state == "set" {
				text = "template saved"
			}
			return fmt.Sprintf(
				`<span %s=%q %s=%q class="domgraft-badge domgraft-badge-%s">%s</span>`,
				MarkerAttr, MarkerBadge, stateAttr, state, state, html.EscapeString(text))
		},
	},
}

// baseCSS is the presentation layer for injected controls. Pure styling,
// no logic; scoped by domgraft- class prefixes.
const baseCSS = `
.domgraft-btn{margin-left:8px;padding:4px 10px;border:1px solid #888;border-radius:4px;background:#fff;cursor:pointer;font-size:13px}
.domgraft-btn-primary{background:#1a73e8;border-color:#1a73e8;color:#fff}
.domgraft-badge{margin-left:8px;padding:2px 8px;border-radius:10px;font-size:11px}
.domgraft-badge-set{background:#d7f3dc;color:#155724}
.domgraft-badge-unset{background:#eee;color:#666}
.domgraft-backdrop{position:fixed;inset:0;background:rgba(0,0,0,.4);display:flex;align-items:center;justify-content:center;z-index:99999}
.domgraft-modal{background:#fff;border-radius:6px;padding:20px;width:480px;max-width:90vw;font-size:14px}
.domgraft-modal textarea{width:100%;box-sizing:border-box;font:inherit}
.domgraft-modal .domgraft-preview{white-space:normal;border:1px solid #ddd;border-radius:4px;padding:10px;margin:8px 0}
.domgraft-ph{background:#fff3cd;border-radius:3px;padding:0 2px}
.domgraft-warn{background:#fff3cd;border:1px solid #ffeeba;border-radius:4px;padding:8px;margin-bottom:8px}
.domgraft-notice{background:#f8d7da;border:1px solid #f5c6cb;border-radius:4px;padding:8px;margin-top:8px}
.domgraft-actions{display:flex;justify-content:flex-end;gap:8px;margin-top:12px}
.domgraft-hint{color:#666;font-size:12px}
`

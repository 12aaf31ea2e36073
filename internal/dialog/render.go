package dialog

import (
	"fmt"
	"html"
	"strings"

	"github.com/hazyhaar/domgraft/internal/reconcile"
	"github.com/hazyhaar/domgraft/template"
)

var (
	dialogSel  = fmt.Sprintf("[%s=%q]", reconcile.MarkerAttr, reconcile.MarkerDialog)
	surfaceSel = fmt.Sprintf("[%s=%q]", reconcile.MarkerAttr, "dialog-surface")
	noticeSel  = fmt.Sprintf("[%s=%q]", reconcile.MarkerAttr, "notice")
)

// render builds the modal markup for a session. The scraped label passes
// through the strict sanitiser before interpolation; field values in the
// send preview are neutralised by Highlight's escape-first pass instead, so
// the preview text stays byte-identical to the body Send will hand off.
func (c *Controller) render(s *Session, labelWarning bool) string {
	var b strings.Builder

	// Backdrop: clicking it (and only it, not the surface) dismisses.
	fmt.Fprintf(&b,
		`<div %s=%q class="domgraft-backdrop" onclick="if (event.target === this) window.__domgraft.ui('dialog_cancel')">`,
		reconcile.MarkerAttr, reconcile.MarkerDialog)
	fmt.Fprintf(&b, `<div class="domgraft-modal" %s="dialog-surface">`, reconcile.MarkerAttr)

	label := c.sanitize.Sanitize(s.Label)
	if labelWarning {
		b.WriteString(`<div class="domgraft-warn">This template was saved under a different list name. Check it still fits before sending.</div>`)
	}

	switch s.Kind {
	case KindEdit:
		fmt.Fprintf(&b, `<h2>Message template — %s</h2>`, label)
		fmt.Fprintf(&b, `<textarea id="domgraft-body" rows="8" autofocus>%s</textarea>`,
			html.EscapeString(s.Body))
		if ph := template.Placeholders(s.Body); len(ph) > 0 {
			fmt.Fprintf(&b, `<p class="domgraft-hint">Placeholders: [%s]</p>`,
				html.EscapeString(strings.Join(ph, "], [")))
		}
		b.WriteString(`<div class="domgraft-actions">`)
		b.WriteString(`<button class="domgraft-btn" onclick="window.__domgraft.ui('dialog_cancel')">Cancel</button>`)
		b.WriteString(`<button class="domgraft-btn domgraft-btn-primary" onclick="window.__domgraft.uiForm('dialog_save', '#domgraft-body')">Save</button>`)
		b.WriteString(`</div>`)

	case KindSend:
		fmt.Fprintf(&b, `<h2>Send SMS — %s</h2>`, label)
		filled := template.Fill(s.Body, s.Fields)
		fmt.Fprintf(&b, `<div class="domgraft-preview">%s</div>`, template.Highlight(filled))
		b.WriteString(`<p class="domgraft-hint">Highlighted placeholders had no matching field and will be sent as-is.</p>`)
		b.WriteString(`<div class="domgraft-actions">`)
		b.WriteString(`<button class="domgraft-btn" onclick="window.__domgraft.ui('dialog_cancel')">Cancel</button>`)
		b.WriteString(`<button class="domgraft-btn domgraft-btn-primary" onclick="window.__domgraft.ui('dialog_send')">Send</button>`)
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div></div>`)
	return b.String()
}

func noticeHTML(msg string) string {
	return fmt.Sprintf(`<div %s=%q class="domgraft-notice">%s</div>`,
		reconcile.MarkerAttr, "notice", html.EscapeString(msg))
}

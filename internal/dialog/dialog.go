// Package dialog manages the modal for editing a template or previewing and
// sending a composed message. At most one session is open at any time;
// every dismissal path converges on Close, which releases the presentation
// node and exactly the dismiss listener this session armed.
package dialog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/domgraft/internal/dom"
	"github.com/hazyhaar/domgraft/internal/extract"
	"github.com/hazyhaar/domgraft/internal/reconcile"
	"github.com/hazyhaar/domgraft/store"
	"github.com/hazyhaar/domgraft/template"
)

// Kind selects the dialog flow.
type Kind string

const (
	// KindEdit shows the editable template body.
	KindEdit Kind = "edit"
	// KindSend shows the read-only composed preview with a send action.
	KindSend Kind = "send"
)

// PhonePlaceholder is the field that names the message recipient.
const PhonePlaceholder = "phone"

// Store is the slice of persistence the controller needs.
type Store interface {
	GetWithFallback(ctx context.Context, key string) (*store.TemplateRecord, error)
	Set(ctx context.Context, key, body, label string) error
	LogSend(ctx context.Context, contextID, recipient string, bodyChars int) error
}

// Sender hands a composed message to the transport collaborator.
type Sender interface {
	Send(ctx context.Context, phone, body string) error
}

// Session is the ephemeral working state of one open dialog. Created by
// Open, destroyed on any dismissal path.
type Session struct {
	ID        string
	Kind      Kind
	ContextID string
	Label     string
	Body      string
	Fields    map[string]string
}

// Controller presents and tears down dialogs. Not safe for concurrent use:
// all calls happen on the consumer-loop goroutine.
type Controller struct {
	dom      dom.DOM
	store    Store
	sender   Sender
	session  *reconcile.Session
	refresh  func(ctx context.Context)
	logger   *slog.Logger
	sanitize *bluemonday.Policy

	cur *Session
}

// New creates a Controller. refresh is called synchronously after a
// successful edit commit so the injected indicator updates without waiting
// for the next host notification.
func New(d dom.DOM, st Store, sender Sender, session *reconcile.Session,
	refresh func(ctx context.Context), logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if refresh == nil {
		refresh = func(context.Context) {}
	}
	return &Controller{
		dom:      d,
		store:    st,
		sender:   sender,
		session:  session,
		refresh:  refresh,
		logger:   logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Current returns the open session, or nil.
func (c *Controller) Current() *Session {
	return c.cur
}

// Open creates exactly one dialog session for the given page context. Any
// prior session is closed first — never orphaned.
func (c *Controller) Open(ctx context.Context, kind Kind, page *extract.Context) error {
	if page == nil {
		return nil
	}
	if c.cur != nil {
		c.Close()
	}

	body := template.DefaultBody
	rec, err := c.store.GetWithFallback(ctx, page.ID)
	if err != nil {
		c.logger.Warn("dialog: template lookup failed, using default", "error", err)
	}
	if rec != nil {
		body = rec.Body
	}

	s := &Session{
		ID:        "dlg_" + uuid.Must(uuid.NewV7()).String(),
		Kind:      kind,
		ContextID: page.ID,
		Label:     page.Label,
		Body:      body,
		Fields:    page.Fields,
	}

	markup := c.render(s, c.session.TakeLabelWarning())
	if err := c.dom.AppendHTML("body", markup); err != nil {
		return err
	}
	if err := c.dom.ArmDismiss(s.ID); err != nil {
		c.logger.Warn("dialog: arm dismiss failed", "error", err)
	}

	c.cur = s
	c.logger.Info("dialog: opened", "kind", kind, "context_id", page.ID)
	return nil
}

// Cancel handles every non-commit dismissal: cancel button, backdrop click,
// cancellation key.
func (c *Controller) Cancel() {
	c.Close()
}

// Save commits the edit flow: persist the working body under the context
// key with the live label, close, and refresh the injected indicator
// synchronously. A store failure keeps the dialog open with an inline
// notice so the user's edit is not discarded.
func (c *Controller) Save(ctx context.Context, body string) {
	if c.cur == nil || c.cur.Kind != KindEdit {
		return
	}
	c.cur.Body = body

	if err := c.store.Set(ctx, c.cur.ContextID, body, c.cur.Label); err != nil {
		c.logger.Error("dialog: save failed", "error", err)
		c.notice("Could not save the template. Your edit is still here — try again.")
		return
	}

	c.logger.Info("dialog: template saved", "context_id", c.cur.ContextID)
	c.Close()
	c.refresh(ctx)
}

// Send commits the send flow: fill the template with the current fields,
// record the handoff, and pass the message to the transport. The dialog
// stays open when no recipient is known or the handoff fails.
func (c *Controller) Send(ctx context.Context) {
	if c.cur == nil || c.cur.Kind != KindSend {
		return
	}

	filled := template.Fill(c.cur.Body, c.cur.Fields)
	phone := c.cur.Fields[PhonePlaceholder]
	if phone == "" {
		c.notice("No phone number found for this record.")
		return
	}

	c.session.LastComposed = filled

	if err := c.store.LogSend(ctx, c.cur.ContextID, phone, len(filled)); err != nil {
		c.logger.Warn("dialog: send log failed", "error", err)
	}
	if err := c.sender.Send(ctx, phone, filled); err != nil {
		c.logger.Error("dialog: transport handoff failed", "error", err)
		c.notice("Could not open the messaging app.")
		return
	}

	c.Close()
}

// Close destroys the session: detach the presentation, release the focus
// trap and the one dismiss listener this session registered, drop state.
// Idempotent.
func (c *Controller) Close() {
	if c.cur == nil {
		return
	}
	c.dom.Remove(dialogSel)
	if err := c.dom.DisarmDismiss(c.cur.ID); err != nil {
		c.logger.Warn("dialog: disarm dismiss failed", "error", err)
	}
	c.logger.Debug("dialog: closed", "context_id", c.cur.ContextID)
	c.cur = nil
}

// notice surfaces an inline recoverable-error message inside the open
// dialog, replacing any previous notice.
func (c *Controller) notice(msg string) {
	c.dom.Remove(noticeSel)
	if err := c.dom.AppendHTML(surfaceSel, noticeHTML(msg)); err != nil {
		c.logger.Warn("dialog: notice failed", "error", err)
	}
}

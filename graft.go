// Package domgraft augments a browser-based canvassing app with a message
// templating UI it does not natively have. It injects buttons and a status
// badge next to the host page's heading, keeps them alive while the host
// re-renders, and composes SMS messages from a persisted template plus
// fields scraped from the page.
//
// domgraft grafts, it does not patch: the host application is never modified
// beyond one style attribute on the injection anchor, and everything
// injected carries a marker attribute so it can be found, repaired, or
// removed on any later pass.
package domgraft

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/domgraft/internal/browser"
	"github.com/hazyhaar/domgraft/internal/config"
	"github.com/hazyhaar/domgraft/internal/dialog"
	"github.com/hazyhaar/domgraft/internal/dom"
	"github.com/hazyhaar/domgraft/internal/observer"
	"github.com/hazyhaar/domgraft/internal/reconcile"
	"github.com/hazyhaar/domgraft/store"
	"github.com/hazyhaar/domgraft/transport"
)

// Grafter is the top-level orchestrator. It owns the browser session, the
// store, and the consumer loop that serialises every page notification and
// UI action onto one goroutine. Create one per observed page.
type Grafter struct {
	cfg    *config.Config
	logger *slog.Logger

	sess *browser.Session
	db   *store.Store
	obs  *observer.Observer
	rec  *reconcile.Reconciler
	dlg  *dialog.Controller
}

// New creates a Grafter from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Grafter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grafter{cfg: cfg, logger: logger}
}

// Run opens the store and the browser, injects the page runtime, and blocks
// in the consumer loop until ctx is cancelled. All reconciliation and dialog
// work happens on this goroutine: events are processed one at a time, in
// arrival order.
func (g *Grafter) Run(ctx context.Context) error {
	db, err := store.Open(g.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("domgraft: open store: %w", err)
	}
	g.db = db
	defer db.Close()

	sess, err := browser.Open(ctx, browser.Config{
		RemoteURL:  g.cfg.Browser.Remote,
		Headful:    g.cfg.Browser.Headful,
		NavTimeout: g.cfg.Page.NavTimeout,
		Logger:     g.logger,
	}, g.cfg.Page.URL)
	if err != nil {
		return fmt.Errorf("domgraft: open browser: %w", err)
	}
	g.sess = sess
	defer sess.Close()

	g.obs = observer.New(ctx, sess.Page, g.logger)

	d := dom.NewLive(sess.Page, g.logger)
	session := &reconcile.Session{}
	g.rec = reconcile.New(d, db, g.cfg.Reconcile, session, g.logger)

	sender := transport.NewOpener(g.cfg.Transport.OpenCommand, g.logger)
	g.dlg = dialog.New(d, db, sender, session, func(ctx context.Context) {
		g.rec.Tick(ctx)
	}, g.logger)

	if err := g.obs.Start(); err != nil {
		return fmt.Errorf("domgraft: start observer: %w", err)
	}
	defer g.obs.Stop()

	// Out-of-process template edits surface as refresh events so the badge
	// stays current even when the page is quiet.
	go db.Watch(ctx, store.WatchOptions{
		Interval: g.cfg.Store.WatchInterval,
		Logger:   g.logger,
	}, func() {
		g.obs.Push(observer.Event{Kind: observer.KindRefresh})
	})

	g.logger.Info("domgraft: running", "url", g.cfg.Page.URL)
	return g.serve(ctx)
}

// serve runs one unconditional startup tick, then the consumer loop. The
// page runtime emits a mutation when injected, but that notification can
// race binding-listener attachment; ticking here means injection never
// waits for the host's next spontaneous mutation.
func (g *Grafter) serve(ctx context.Context) error {
	g.rec.Tick(ctx)
	return g.loop(ctx)
}

func (g *Grafter) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			g.logger.Info("domgraft: shutting down")
			return nil
		case ev := <-g.obs.Events():
			switch ev.Kind {
			case observer.KindMutation, observer.KindRefresh:
				g.rec.Tick(ctx)
			case observer.KindUI:
				g.handleUI(ctx, ev)
			}
		}
	}
}

// handleUI routes one user action. Actions arriving for a dialog that is no
// longer open fall through as no-ops inside the controller.
func (g *Grafter) handleUI(ctx context.Context, ev observer.Event) {
	switch ev.Action {
	case observer.ActionTemplate:
		if err := g.dlg.Open(ctx, dialog.KindEdit, g.rec.Current()); err != nil {
			g.logger.Error("domgraft: open edit dialog failed", "error", err)
		}
	case observer.ActionCompose:
		if err := g.dlg.Open(ctx, dialog.KindSend, g.rec.Current()); err != nil {
			g.logger.Error("domgraft: open send dialog failed", "error", err)
		}
	case observer.ActionDialogCancel:
		g.dlg.Cancel()
	case observer.ActionDialogSave:
		g.dlg.Save(ctx, ev.Data["body"])
	case observer.ActionDialogSend:
		g.dlg.Send(ctx)
	default:
		g.logger.Debug("domgraft: unknown ui action", "action", ev.Action)
	}
}

// Package observer wires the host page to the consumer loop. It injects
// graft.js (MutationObserver + UI event relay + dismiss-key management) and
// turns Runtime.bindingCalled payloads into Events on a single channel.
package observer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

//go:embed graft.js
var graftJS []byte

const bindingName = "__domgraft_binding"

// Observer manages the page-side runtime for a single tab.
type Observer struct {
	page   *rod.Page
	events chan Event
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an Observer for the given page. Delivery stops when ctx is
// cancelled or Stop is called, whichever comes first.
func New(ctx context.Context, page *rod.Page, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Observer{
		page:   page,
		events: make(chan Event, 256),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Events is the single consumer channel. Delivery order matches the order
// the page emitted notifications.
func (o *Observer) Events() <-chan Event {
	return o.events
}

// Start registers the JS→Go binding and injects graft.js. The injected
// script emits one mutation event immediately, which serves as the startup
// tick.
func (o *Observer) Start() error {
	err := proto.RuntimeAddBinding{Name: bindingName}.Call(o.page)
	if err != nil {
		o.logger.Warn("observer: addBinding failed (may already exist)", "error", err)
	}

	go o.listenBinding()

	if _, err := o.page.Eval(string(graftJS)); err != nil {
		return fmt.Errorf("observer: inject graft.js: %w", err)
	}

	o.logger.Info("observer: page runtime injected")
	return nil
}

// Stop stops delivering events.
func (o *Observer) Stop() {
	o.cancel()
}

// Push injects an event from outside the page (store watcher refreshes).
// Non-blocking: when the buffer is full the event is dropped — a refresh is
// always superseded by whatever fills the buffer.
func (o *Observer) Push(ev Event) {
	select {
	case o.events <- ev:
	default:
		o.logger.Debug("observer: event buffer full, dropped", "kind", ev.Kind)
	}
}

// listenBinding receives graft.js payloads via Runtime.bindingCalled.
func (o *Observer) listenBinding() {
	o.page.Context(o.ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}

		var msg struct {
			Event  string            `json:"event"`
			Action string            `json:"action"`
			Data   map[string]string `json:"data"`
		}
		if err := json.Unmarshal([]byte(e.Payload), &msg); err != nil {
			o.logger.Warn("observer: parse binding payload", "error", err)
			return
		}

		ev := Event{Action: msg.Action, Data: msg.Data}
		switch msg.Event {
		case "mutation":
			ev.Kind = KindMutation
		case "ui":
			ev.Kind = KindUI
		default:
			o.logger.Debug("observer: unknown event", "event", msg.Event)
			return
		}

		select {
		case o.events <- ev:
		case <-o.ctx.Done():
		}
	})()
}

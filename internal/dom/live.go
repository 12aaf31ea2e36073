package dom

import (
	"log/slog"

	"github.com/go-rod/rod"
)

// Live is a DOM over a real page via CDP. Every method is one bounded
// querySelector evaluation; nothing holds a node reference across calls.
type Live struct {
	page   *rod.Page
	logger *slog.Logger
}

// NewLive wraps a rod page. The page must already have graft.js injected
// for ArmDismiss/DisarmDismiss to work.
func NewLive(page *rod.Page, logger *slog.Logger) *Live {
	if logger == nil {
		logger = slog.Default()
	}
	return &Live{page: page, logger: logger}
}

func (l *Live) Count(sel string) int {
	res, err := l.page.Eval(`(sel) => document.querySelectorAll(sel).length`, sel)
	if err != nil {
		l.logger.Debug("dom: count failed", "selector", sel, "error", err)
		return 0
	}
	return res.Value.Int()
}

func (l *Live) Text(sel string) (string, bool) {
	res, err := l.page.Eval(`(sel) => {
		const el = document.querySelector(sel);
		return el === null ? null : el.textContent.trim();
	}`, sel)
	if err != nil || res.Value.Nil() {
		return "", false
	}
	return res.Value.Str(), true
}

func (l *Live) Attr(sel, name string) (string, bool) {
	res, err := l.page.Eval(`(sel, name) => {
		const el = document.querySelector(sel);
		return el === null ? null : el.getAttribute(name);
	}`, sel, name)
	if err != nil || res.Value.Nil() {
		return "", false
	}
	return res.Value.Str(), true
}

func (l *Live) AppendHTML(anchorSel, fragment string) error {
	res, err := l.page.Eval(`(sel, html) => {
		const a = document.querySelector(sel);
		if (a === null) return false;
		a.insertAdjacentHTML('beforeend', html);
		return true;
	}`, anchorSel, fragment)
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return ErrNoAnchor
	}
	return nil
}

func (l *Live) SetAttr(sel, name, value string) error {
	_, err := l.page.Eval(`(sel, name, value) => {
		document.querySelectorAll(sel).forEach((el) => el.setAttribute(name, value));
	}`, sel, name, value)
	return err
}

func (l *Live) Remove(sel string) error {
	_, err := l.page.Eval(`(sel) => {
		document.querySelectorAll(sel).forEach((el) => el.remove());
	}`, sel)
	return err
}

func (l *Live) ArmDismiss(token string) error {
	_, err := l.page.Eval(`(tok) => {
		if (window.__domgraft) window.__domgraft.armDismiss(tok);
	}`, token)
	return err
}

func (l *Live) DisarmDismiss(token string) error {
	_, err := l.page.Eval(`(tok) => {
		if (window.__domgraft) window.__domgraft.disarmDismiss(tok);
	}`, token)
	return err
}

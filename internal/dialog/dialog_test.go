package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hazyhaar/domgraft/internal/dom"
	"github.com/hazyhaar/domgraft/internal/extract"
	"github.com/hazyhaar/domgraft/internal/reconcile"
	"github.com/hazyhaar/domgraft/store"
	"github.com/hazyhaar/domgraft/template"
)

type setCall struct{ key, body, label string }

type fakeStore struct {
	recs    map[string]*store.TemplateRecord
	failSet bool
	sets    []setCall
	logs    int
}

func (f *fakeStore) GetWithFallback(_ context.Context, key string) (*store.TemplateRecord, error) {
	if rec, ok := f.recs[key]; ok {
		return rec, nil
	}
	return f.recs[store.SharedKey], nil
}

func (f *fakeStore) Set(_ context.Context, key, body, label string) error {
	if f.failSet {
		return errors.New("store unavailable")
	}
	f.sets = append(f.sets, setCall{key, body, label})
	f.recs[key] = &store.TemplateRecord{Key: key, Body: body, Label: label}
	return nil
}

func (f *fakeStore) LogSend(_ context.Context, _, _ string, _ int) error {
	f.logs++
	return nil
}

type fakeSender struct {
	phone, body string
	calls       int
	fail        bool
}

func (f *fakeSender) Send(_ context.Context, phone, body string) error {
	if f.fail {
		return errors.New("no handler")
	}
	f.calls++
	f.phone, f.body = phone, body
	return nil
}

func pageContext() *extract.Context {
	return &extract.Context{
		ID:    "42",
		Label: "North Brighton doors",
		Fields: map[string]string{
			"their name": "Pam",
			"suburb":     "North Brighton",
			"phone":      "+61412345678",
		},
	}
}

func testController(t *testing.T, st *fakeStore) (*Controller, *dom.Parsed, *fakeSender, *reconcile.Session, *int) {
	t.Helper()
	p, err := dom.ParseString("<html><body><h1>host</h1></body></html>")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if st == nil {
		st = &fakeStore{recs: map[string]*store.TemplateRecord{}}
	}
	sender := &fakeSender{}
	session := &reconcile.Session{}
	refreshes := 0
	c := New(p, st, sender, session, func(context.Context) { refreshes++ }, nil)
	return c, p, sender, session, &refreshes
}

func TestOpen_SeedsDefaultBodyWhenUnset(t *testing.T) {
	c, p, _, _, _ := testController(t, nil)

	if err := c.Open(context.Background(), KindEdit, pageContext()); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if c.Current() == nil || c.Current().Body != template.DefaultBody {
		t.Errorf("session body: got %+v, want compiled-in default", c.Current())
	}
	if got := p.Count(dialogSel); got != 1 {
		t.Errorf("dialog nodes: got %d, want 1", got)
	}
	if got := p.ArmedDismissCount(); got != 1 {
		t.Errorf("armed listeners: got %d, want 1", got)
	}
	text, _ := p.Text("#domgraft-body")
	if !strings.Contains(text, "Hi [their name]") {
		t.Errorf("textarea seed: got %q", text)
	}
}

func TestOpen_SeedsStoredBody(t *testing.T) {
	st := &fakeStore{recs: map[string]*store.TemplateRecord{
		"42": {Key: "42", Body: "custom [suburb] body", Label: "North Brighton doors"},
	}}
	c, _, _, _, _ := testController(t, st)

	c.Open(context.Background(), KindEdit, pageContext())

	if got := c.Current().Body; got != "custom [suburb] body" {
		t.Errorf("session body: got %q", got)
	}
}

func TestOpen_ClosesPriorSession(t *testing.T) {
	c, p, _, _, _ := testController(t, nil)
	ctx := context.Background()

	c.Open(ctx, KindEdit, pageContext())
	first := c.Current().ID
	c.Open(ctx, KindSend, pageContext())

	if c.Current().ID == first {
		t.Error("second Open reused the prior session")
	}
	if got := p.Count(dialogSel); got != 1 {
		t.Errorf("dialog nodes: got %d, want 1", got)
	}
	if got := p.ArmedDismissCount(); got != 1 {
		t.Errorf("armed listeners: got %d, want 1 (leak)", got)
	}
}

func TestDismissalPathsConverge(t *testing.T) {
	c, p, _, _, _ := testController(t, nil)
	ctx := context.Background()

	// Repeated open/cancel cycles must not leak listeners or nodes.
	for i := 0; i < 3; i++ {
		c.Open(ctx, KindEdit, pageContext())
		c.Cancel()
	}

	if c.Current() != nil {
		t.Error("session survived Cancel")
	}
	if got := p.Count(dialogSel); got != 0 {
		t.Errorf("dialog nodes after cancel: got %d, want 0", got)
	}
	if got := p.ArmedDismissCount(); got != 0 {
		t.Errorf("armed listeners after cancel: got %d, want 0", got)
	}

	// Close is idempotent.
	c.Close()
	if got := p.ArmedDismissCount(); got != 0 {
		t.Errorf("armed listeners after double close: got %d", got)
	}
}

func TestSave_CommitsAndRefreshes(t *testing.T) {
	st := &fakeStore{recs: map[string]*store.TemplateRecord{}}
	c, p, _, _, refreshes := testController(t, st)
	ctx := context.Background()

	c.Open(ctx, KindEdit, pageContext())
	c.Save(ctx, "Hi [their name], new body")

	if len(st.sets) != 1 {
		t.Fatalf("sets: got %d, want 1", len(st.sets))
	}
	got := st.sets[0]
	if got.key != "42" || got.body != "Hi [their name], new body" || got.label != "North Brighton doors" {
		t.Errorf("Set: got %+v", got)
	}
	if c.Current() != nil || p.Count(dialogSel) != 0 {
		t.Error("dialog still open after successful commit")
	}
	if *refreshes != 1 {
		t.Errorf("refreshes: got %d, want 1", *refreshes)
	}

	// The saved body is what a later open sees.
	c.Open(ctx, KindEdit, pageContext())
	if c.Current().Body != "Hi [their name], new body" {
		t.Errorf("reopened body: got %q", c.Current().Body)
	}
}

func TestSave_StoreFailureKeepsDialogOpen(t *testing.T) {
	st := &fakeStore{recs: map[string]*store.TemplateRecord{}, failSet: true}
	c, p, _, _, refreshes := testController(t, st)
	ctx := context.Background()

	c.Open(ctx, KindEdit, pageContext())
	c.Save(ctx, "edited body")

	if c.Current() == nil || p.Count(dialogSel) != 1 {
		t.Fatal("dialog closed despite store failure")
	}
	if c.Current().Body != "edited body" {
		t.Errorf("working copy lost: got %q", c.Current().Body)
	}
	if got := p.Count(noticeSel); got != 1 {
		t.Errorf("notices: got %d, want 1", got)
	}
	if *refreshes != 0 {
		t.Errorf("refreshes after failure: got %d, want 0", *refreshes)
	}

	// A second failure replaces the notice, never stacks it.
	c.Save(ctx, "edited body again")
	if got := p.Count(noticeSel); got != 1 {
		t.Errorf("notices after second failure: got %d, want 1", got)
	}
}

func TestSend_HandsOffFilledMessage(t *testing.T) {
	st := &fakeStore{recs: map[string]*store.TemplateRecord{
		"42": {Key: "42", Body: "Hi [their name] from [suburb]", Label: "North Brighton doors"},
	}}
	c, p, sender, session, _ := testController(t, st)
	ctx := context.Background()

	c.Open(ctx, KindSend, pageContext())
	c.Send(ctx)

	if sender.calls != 1 {
		t.Fatalf("sender calls: got %d, want 1", sender.calls)
	}
	if sender.phone != "+61412345678" {
		t.Errorf("phone: got %q", sender.phone)
	}
	if sender.body != "Hi Pam from North Brighton" {
		t.Errorf("body: got %q", sender.body)
	}
	if session.LastComposed != sender.body {
		t.Errorf("LastComposed: got %q", session.LastComposed)
	}
	if st.logs != 1 {
		t.Errorf("send log rows: got %d, want 1", st.logs)
	}
	if c.Current() != nil || p.Count(dialogSel) != 0 {
		t.Error("dialog still open after send")
	}
}

func TestSend_NoPhoneKeepsDialogOpen(t *testing.T) {
	c, p, sender, _, _ := testController(t, nil)
	ctx := context.Background()

	page := pageContext()
	delete(page.Fields, "phone")

	c.Open(ctx, KindSend, page)
	c.Send(ctx)

	if sender.calls != 0 {
		t.Errorf("sender calls: got %d, want 0", sender.calls)
	}
	if c.Current() == nil || p.Count(noticeSel) != 1 {
		t.Error("expected open dialog with notice when no recipient")
	}
}

func TestOpen_LabelWarningShownOnce(t *testing.T) {
	c, p, _, session, _ := testController(t, nil)
	ctx := context.Background()

	session.FlagLabelWarning()
	c.Open(ctx, KindEdit, pageContext())
	if got := p.Count(".domgraft-warn"); got != 1 {
		t.Errorf("warning banners: got %d, want 1", got)
	}
	c.Cancel()

	c.Open(ctx, KindEdit, pageContext())
	if got := p.Count(".domgraft-warn"); got != 0 {
		t.Errorf("warning banners on second open: got %d, want 0", got)
	}
}

func TestSendPreview_MatchesOutgoingBody(t *testing.T) {
	st := &fakeStore{recs: map[string]*store.TemplateRecord{
		"42": {Key: "42", Body: "Hi [their name]", Label: "North Brighton doors"},
	}}
	c, p, sender, _, _ := testController(t, st)
	ctx := context.Background()

	page := pageContext()
	page.Fields["their name"] = "Tom & Jerry"

	c.Open(ctx, KindSend, page)

	// The preview must show the exact text Send will hand off: escaping is
	// presentation-only and applied exactly once.
	text, ok := p.Text(".domgraft-preview")
	if !ok {
		t.Fatal("no preview rendered")
	}
	if text != "Hi Tom & Jerry" {
		t.Errorf("preview text: got %q, want %q", text, "Hi Tom & Jerry")
	}

	c.Send(ctx)
	if sender.body != "Hi Tom & Jerry" {
		t.Errorf("sent body: got %q, want %q", sender.body, "Hi Tom & Jerry")
	}
}

func TestSendPreview_EscapesHostContent(t *testing.T) {
	st := &fakeStore{recs: map[string]*store.TemplateRecord{
		"42": {Key: "42", Body: "Hi [their name]", Label: "North Brighton doors"},
	}}
	c, p, _, _, _ := testController(t, st)

	page := pageContext()
	page.Fields["their name"] = `<img src=x onerror=alert(1)>Pam`

	c.Open(context.Background(), KindSend, page)

	if got := p.Count(".domgraft-preview img"); got != 0 {
		t.Errorf("scraped markup rendered live in preview: %d img nodes", got)
	}
}

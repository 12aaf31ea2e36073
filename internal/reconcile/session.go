package reconcile

// Session is the process-scoped mutable state shared by the reconciler and
// the dialog controller. Created once at startup and threaded through both;
// mutated only on the consumer-loop goroutine, so no locking. Page unload
// ends the process — there is no teardown.
type Session struct {
	// LastContextID is the retained context identifier from the previous
	// tick. A differing ID on the current tick is a context transition.
	LastContextID string

	// LastComposed is the most recent message body handed to the transport.
	LastComposed string

	labelWarning bool
}

// FlagLabelWarning records that the stored template's label no longer
// matches the live list label — the underlying list was renamed or reused.
// The warning surfaces as a banner on the next dialog open.
func (s *Session) FlagLabelWarning() {
	s.labelWarning = true
}

// TakeLabelWarning consumes the pending warning.
func (s *Session) TakeLabelWarning() bool {
	w := s.labelWarning
	s.labelWarning = false
	return w
}

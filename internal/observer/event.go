package observer

// Kind classifies an event delivered into the consumer loop.
type Kind string

const (
	// KindMutation is a host-document change notification. One event = one
	// reconciliation tick; no Go-side coalescing is applied.
	KindMutation Kind = "mutation"
	// KindUI is an interaction with an injected control or an open dialog.
	KindUI Kind = "ui"
	// KindRefresh asks for a tick without a document mutation (store
	// watcher detected an out-of-process template edit).
	KindRefresh Kind = "refresh"
)

// UI event actions.
const (
	ActionTemplate     = "template"      // open the edit-template dialog
	ActionCompose      = "compose"       // open the send-message dialog
	ActionDialogCancel = "dialog_cancel" // any dismissal path except commit
	ActionDialogSave   = "dialog_save"   // edit-flow commit; Data["body"] holds the working copy
	ActionDialogSend   = "dialog_send"   // send-flow commit
)

// Event is the single unit of work for the consumer loop. Everything the
// loop reacts to — mutations, clicks, key presses, store refreshes — arrives
// as one of these, in delivery order.
type Event struct {
	Kind   Kind
	Action string
	Data   map[string]string
}

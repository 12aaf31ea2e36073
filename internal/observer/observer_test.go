package observer

import (
	"context"
	"testing"
)

func TestPushDeliversInOrder(t *testing.T) {
	o := New(context.Background(), nil, nil)

	o.Push(Event{Kind: KindRefresh})
	o.Push(Event{Kind: KindUI, Action: ActionTemplate})

	for i, want := range []Kind{KindRefresh, KindUI} {
		select {
		case ev := <-o.Events():
			if ev.Kind != want {
				t.Errorf("event %d: got %q, want %q", i, ev.Kind, want)
			}
		default:
			t.Fatalf("event %d: nothing buffered", i)
		}
	}
}

func TestPushDropsWhenFull(t *testing.T) {
	o := New(context.Background(), nil, nil)

	// Refreshes beyond the buffer are dropped, never block the pusher.
	for i := 0; i < cap(o.events)+10; i++ {
		o.Push(Event{Kind: KindRefresh})
	}
	if got := len(o.events); got != cap(o.events) {
		t.Errorf("buffered events: got %d, want %d", got, cap(o.events))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	o := New(context.Background(), nil, nil)
	o.Stop()
	o.Stop()

	select {
	case <-o.ctx.Done():
	default:
		t.Error("Stop did not cancel the observer context")
	}
}

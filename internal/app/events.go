package app

import (
	"slices"

	"calories/internal/domain"
)

// EventType names a ledger change.
type EventType string

const (
	EventRecordAdded   EventType = "record_added"
	EventRecordRemoved EventType = "record_removed"
	EventLimitChanged  EventType = "limit_changed"
	EventReset         EventType = "reset"
)

// Event is published to subscribers after a ledger change is committed.
type Event struct {
	Type EventType
	// Kind and Record are set for record events only.
	Kind     domain.Kind
	Record   domain.Record
	Snapshot domain.Snapshot
	// Seq is the commit sequence number of the change. Events from
	// concurrent writers may be delivered out of order; a larger Seq is
	// always the newer state. Replayed events carry the current Seq.
	Seq uint64
	// Replay marks record_added events re-emitted by LoadItems.
	Replay bool
}

// Subscribe registers fn for every future event and returns a function that
// removes it. Listeners run synchronously on the caller's goroutine, after
// the ledger lock has been released.
func (t *CalorieTracker) Subscribe(fn func(Event)) (unsubscribe func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	t.nextSub++
	key := t.nextSub
	t.subs[key] = fn
	return func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		delete(t.subs, key)
	}
}

func (t *CalorieTracker) publish(events ...Event) {
	t.subMu.Lock()
	keys := make([]int, 0, len(t.subs))
	for k := range t.subs {
		keys = append(keys, k)
	}
	fns := make([]func(Event), 0, len(keys))
	// Deliver in subscription order.
	slices.Sort(keys)
	for _, k := range keys {
		fns = append(fns, t.subs[k])
	}
	t.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

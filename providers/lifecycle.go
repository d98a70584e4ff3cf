package providers

import (
	"sync"

	"github.com/corebc/go-corebc/types"
)

// SubmissionEventType identifies one stage of a tracked submission's life.
type SubmissionEventType int

const (
	// SubmissionBroadcast marks the first broadcast of a transaction.
	SubmissionBroadcast SubmissionEventType = iota
	// SubmissionEscalated marks a rebroadcast with a higher energy price.
	SubmissionEscalated
	// SubmissionMined marks the first receipt observed for any attempt hash.
	SubmissionMined
	// SubmissionConfirmed marks the configured confirmation depth being reached.
	SubmissionConfirmed
	// SubmissionDropped marks the pool forgetting every attempt hash before inclusion.
	SubmissionDropped
	// SubmissionTimedOut marks the watch deadline elapsing before confirmation.
	SubmissionTimedOut
	// SubmissionExhausted marks an escalation that hit its attempt or price ceiling unmined.
	SubmissionExhausted
)

// String returns a short human-readable name for the event type.
func (t SubmissionEventType) String() string {
	switch t {
	case SubmissionBroadcast:
		return "broadcast"
	case SubmissionEscalated:
		return "escalated"
	case SubmissionMined:
		return "mined"
	case SubmissionConfirmed:
		return "confirmed"
	case SubmissionDropped:
		return "dropped"
	case SubmissionTimedOut:
		return "timed out"
	case SubmissionExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// SubmissionEvent describes one lifecycle transition of a tracked submission.
type SubmissionEvent struct {
	// Type is the transition that occurred.
	Type SubmissionEventType

	// SubmissionID identifies the logical transaction across all of its broadcast attempts.
	SubmissionID string

	// Hash is the attempt hash the transition relates to.
	Hash types.Hash

	// Attempt is the one-based broadcast attempt number.
	Attempt int
}

// EventHandler is a callback invoked with each published event.
type EventHandler[T any] func(T)

// Emitter publishes events of one type to its subscribed handlers. Subscriptions are bound to the
// emitter instance and are released with it; handlers are invoked synchronously on the publishing
// goroutine. Safe for concurrent use.
type Emitter[T any] struct {
	lock          sync.Mutex
	subscriptions []EventHandler[T]
}

// Subscribe registers a handler to be invoked for every subsequently published event.
func (e *Emitter[T]) Subscribe(callback EventHandler[T]) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.subscriptions = append(e.subscriptions, callback)
}

// Publish delivers the event to every subscribed handler.
func (e *Emitter[T]) Publish(event T) {
	e.lock.Lock()
	handlers := make([]EventHandler[T], len(e.subscriptions))
	copy(handlers, e.subscriptions)
	e.lock.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}

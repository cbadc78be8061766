// Package engine is the session/chat interaction core: it owns session
// identity, the conversation transcript, the pending-request flags and the
// error signal, and drives the upload and chat exchanges against the
// analysis service. All mutation goes through the engine; registered
// observers see every change as it happens.
package engine

import (
	"sync"

	"datachat/apiclient"
	"datachat/config"
	"datachat/transcript"

	"go.uber.org/zap"
)

// Outcome reports whether an operation passed its local preconditions.
// A rejected operation is a deliberate no-op: nothing was sent, no state
// changed, and no error signal was raised.
type Outcome int

const (
	Accepted Outcome = iota
	Rejected
)

// EventKind identifies which part of the engine state changed.
type EventKind string

const (
	EventTranscript EventKind = "transcript"
	EventSession    EventKind = "session"
	EventPending    EventKind = "pending"
	EventError      EventKind = "error"
)

// Event is delivered to subscribers on every state mutation.
type Event struct {
	Kind EventKind `json:"kind"`
}

// Engine holds the single logical session. State is guarded by mu; the
// network call of each coordinator runs outside the lock so the rest of
// the system stays responsive while a request is in flight.
type Engine struct {
	cfg    *config.Config
	client *apiclient.Client
	logger *zap.Logger

	mu        sync.Mutex
	sessionID string
	dataset   *apiclient.DatasetInfo
	log       transcript.Log
	uploading bool
	sending   bool
	lastErr   string

	obsMu     sync.Mutex
	observers map[int]chan Event
	nextObs   int
}

func New(cfg *config.Config, client *apiclient.Client, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		client:    client,
		logger:    logger,
		observers: make(map[int]chan Event),
	}
}

// IsActive reports whether a dataset is currently loaded.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID != ""
}

// SessionID returns the current session handle, or "" when no dataset is
// loaded.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Dataset returns a copy of the active session's dataset summary, or nil.
func (e *Engine) Dataset() *apiclient.DatasetInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dataset == nil {
		return nil
	}
	info := *e.dataset
	return &info
}

// Transcript returns a copy of the conversation in insertion order.
func (e *Engine) Transcript() []transcript.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Entries()
}

// Pending returns the two independent in-flight flags.
func (e *Engine) Pending() (uploading, sending bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uploading, e.sending
}

// LastError returns the current error signal, or "" when clear. The signal
// is a single overwritable slot: each new failure replaces it, and it is
// cleared when the next operation starts or the session is reset.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Reset destroys the session: session handle, dataset summary, transcript,
// pending flags and error signal all return to their initial state.
// Calling Reset on an already-reset engine is a no-op with the same
// result.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.sessionID = ""
	e.dataset = nil
	e.log.Reset()
	e.uploading = false
	e.sending = false
	e.lastErr = ""
	e.mu.Unlock()

	e.logger.Info("Session reset")
	e.notify(EventSession)
	e.notify(EventTranscript)
	e.notify(EventPending)
	e.notify(EventError)
}

// activate establishes a new session, replacing any prior one. Caller must
// hold e.mu.
func (e *Engine) activate(sessionID string, info apiclient.DatasetInfo) {
	e.sessionID = sessionID
	e.dataset = &info
	e.lastErr = ""
}

// Subscribe registers an observer. Events are delivered on the returned
// channel until the cancel function is called; a slow consumer drops
// events rather than blocking the engine.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, e.cfg.EventBufferSize)

	e.obsMu.Lock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = ch
	e.obsMu.Unlock()

	cancel := func() {
		e.obsMu.Lock()
		if _, ok := e.observers[id]; ok {
			delete(e.observers, id)
			close(ch)
		}
		e.obsMu.Unlock()
	}
	return ch, cancel
}

func (e *Engine) notify(kind EventKind) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	for _, ch := range e.observers {
		select {
		case ch <- Event{Kind: kind}:
		default:
		}
	}
}

// Suggestions returns candidate questions for the active dataset. Without
// an active session it still returns the generic list.
func (e *Engine) Suggestions() []string {
	return SuggestionsFor(e.Dataset())
}

package notify

import (
	"context"
	"sync"
)

// Recorder is a Notifier that remembers every intent, for tests and for
// running without a broker.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded intents in send order.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// LastOfKind returns the most recent intent of the given kind, or nil.
func (r *Recorder) LastOfKind(kind Kind) *Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].Kind == kind {
			msg := r.sent[i]
			return &msg
		}
	}
	return nil
}

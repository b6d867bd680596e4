package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"counselling_backend/internals/helpers/mailer"
)

// Notice is one in-app notification to be stored for a user.
type Notice struct {
	UserID    uuid.UUID
	CaseID    *uuid.UUID
	SessionID *uuid.UUID
	Details   string
}

// Envelope groups the side effects of one lifecycle action.
type Envelope struct {
	Event   string
	Notices []Notice
	Mails   []mailer.Message
}

// Publisher accepts envelopes without blocking the caller and never reports delivery errors.
type Publisher interface {
	Publish(ctx context.Context, env Envelope)
}

// Recorder keeps published envelopes in memory. Used by tests and dry runs.
type Recorder struct {
	mu        sync.Mutex
	envelopes []Envelope
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(_ context.Context, env Envelope) {
	r.mu.Lock()
	r.envelopes = append(r.envelopes, env)
	r.mu.Unlock()
}

// Envelopes returns a copy of everything published so far.
func (r *Recorder) Envelopes() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.envelopes))
	copy(out, r.envelopes)
	return out
}

// Events lists envelope event names in publish order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.envelopes))
	for _, e := range r.envelopes {
		out = append(out, e.Event)
	}
	return out
}

// Last returns the most recent envelope, or false when nothing was published.
func (r *Recorder) Last() (Envelope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.envelopes) == 0 {
		return Envelope{}, false
	}
	return r.envelopes[len(r.envelopes)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.envelopes = nil
	r.mu.Unlock()
}

package booking

import (
	"sync"
	"time"
)

// FormRegistry holds one in-progress form per session. Forms are transient:
// they live in memory and expire after idleTTL without activity.
type FormRegistry struct {
	mu      sync.Mutex
	forms   map[string]*Form
	deps    FormDeps
	idleTTL time.Duration
}

func NewFormRegistry(deps FormDeps, idleTTL time.Duration) *FormRegistry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &FormRegistry{
		forms:   map[string]*Form{},
		deps:    deps,
		idleTTL: idleTTL,
	}
}

// Start replaces the session's form with a fresh one.
func (r *FormRegistry) Start(sessionID string, actor Actor) *Form {
	f := NewForm(r.deps, actor)

	r.mu.Lock()
	r.forms[sessionID] = f
	r.mu.Unlock()
	return f
}

func (r *FormRegistry) Get(sessionID string) (*Form, bool) {
	r.mu.Lock()
	f, ok := r.forms[sessionID]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	if r.expired(f) {
		r.Drop(sessionID)
		return nil, false
	}
	return f, true
}

func (r *FormRegistry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.forms, sessionID)
	r.mu.Unlock()
}

// Sweep removes idle forms and reports how many went.
func (r *FormRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, f := range r.forms {
		if r.expired(f) {
			delete(r.forms, id)
			n++
		}
	}
	return n
}

func (r *FormRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

func (r *FormRegistry) expired(f *Form) bool {
	return r.deps.Now().Sub(f.idleSince()) > r.idleTTL
}

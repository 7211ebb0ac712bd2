package interact

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks every outstanding cancellable operation by token. The
// bookkeeping is one critical section; the operation bodies run concurrently
// with each other and with registry access.
type Registry struct {
	mu  sync.Mutex
	ops map[uuid.UUID]context.CancelFunc
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[uuid.UUID]context.CancelFunc)}
}

// Register stores the cancellation capability of a freshly spawned operation
// and returns its token.
func (r *Registry) Register(cancel context.CancelFunc) uuid.UUID {
	token := uuid.New()
	r.mu.Lock()
	r.ops[token] = cancel
	r.mu.Unlock()
	return token
}

// Complete removes a finished operation. Completing an unknown token is a
// no-op: CancelAll may have already swept it.
func (r *Registry) Complete(token uuid.UUID) {
	r.mu.Lock()
	delete(r.ops, token)
	r.mu.Unlock()
}

// CancelAll signals cancellation to every registered operation and clears
// the registry. It does not wait for the bodies to observe the signal;
// cancellation is a request, not a guarantee of immediate cessation.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, cancel := range r.ops {
		cancel()
		delete(r.ops, token)
	}
}

// Outstanding reports the number of registered operations.
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

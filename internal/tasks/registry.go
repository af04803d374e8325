package tasks

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks the in-flight requests of one view. Each request gets an id
// and a cancellable context; when the view goes away CancelAll aborts them,
// and Finish tells late results apart from live ones.
type Registry struct {
	parent context.Context

	mu       sync.Mutex
	contexts map[string]context.CancelFunc
	closed   bool
}

// NewRegistry creates a registry whose request contexts derive from parent
func NewRegistry(parent context.Context) *Registry {
	return &Registry{
		parent:   parent,
		contexts: make(map[string]context.CancelFunc),
	}
}

// Start registers a new request. On a closed registry the returned context is already cancelled.
func (r *Registry) Start() (string, context.Context) {
	ctx, cancel := context.WithCancel(r.parent)
	requestID := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		cancel()
		return requestID, ctx
	}
	r.contexts[requestID] = cancel
	return requestID, ctx
}

// Finish removes a request and reports whether it was still live. Results
// of requests that are no longer live must be dropped.
func (r *Registry) Finish(requestID string) bool {
	r.mu.Lock()
	cancel, ok := r.contexts[requestID]
	delete(r.contexts, requestID)
	r.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}

// Cancel aborts a specific request
func (r *Registry) Cancel(requestID string) {
	r.mu.Lock()
	cancel, ok := r.contexts[requestID]
	delete(r.contexts, requestID)
	r.mu.Unlock()

	if ok {
		cancel()
	}
}

// CancelAll aborts every live request; the registry stays usable
func (r *Registry) CancelAll() {
	r.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(r.contexts))
	for id, cancel := range r.contexts {
		cancels = append(cancels, cancel)
		delete(r.contexts, id)
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Close aborts every live request and refuses new ones
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.CancelAll()
}

// Live returns the number of requests still running
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contexts)
}

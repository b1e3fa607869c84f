package session

import (
	"log/slog"
	"sync"
	"time"
)

// Registry maps browser session IDs to their controllers. Each session owns
// exactly one controller; there is no shared mutable state across sessions.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	factory     func() *Controller
	idleTimeout time.Duration
	logger      *slog.Logger
	stopChannel chan struct{}
}

// NewRegistry creates a registry that builds missing controllers with factory
// and expires controllers that have been idle longer than idleTimeout.
func NewRegistry(factory func() *Controller, idleTimeout time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		controllers: map[string]*Controller{},
		factory:     factory,
		idleTimeout: idleTimeout,
		logger:      logger.With("source", "session.Registry"),
		stopChannel: make(chan struct{}),
	}
}

// Get returns the controller for the session ID, creating it on first use.
func (r *Registry) Get(id string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	controller, ok := r.controllers[id]
	if !ok {
		controller = r.factory()
		r.controllers[id] = controller
	}
	return controller
}

// Len reports the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// Start sweeps idle sessions until Stop is called. It blocks, so it should be
// called in a goroutine.
func (r *Registry) Start(sweepInterval time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopChannel:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// Stop terminates the sweeping goroutine.
func (r *Registry) Stop() {
	close(r.stopChannel)
}

func (r *Registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	deadline := time.Now().Add(-r.idleTimeout)
	for id, controller := range r.controllers {
		if controller.LastActive().Before(deadline) {
			delete(r.controllers, id)
			// Close releases the session's collaborators, otherwise an evicted
			// investigation would leave its ambient pulse ticking forever.
			controller.Close()
			r.logger.Debug("expired idle session", "session_id", id)
		}
	}
}

package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/userauth/logger"
)

// DefaultStopTimeout bounds a single component's Stop call.
const DefaultStopTimeout = 10 * time.Second

type entry struct {
	Component
	started  bool
	deferred bool
}

// Registry owns the service's infrastructure. Components start in the order
// they were registered and stop in reverse. Deferred components, such as the
// HTTP server, are left out of StartAll and started by StartDeferred once
// the handlers they serve are wired.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	log     *logger.Logger
}

// NewRegistry returns an empty registry. A nil log uses the global logger.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Registry{log: log.WithComponent("registry")}
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	return r.register(c, false)
}

// RegisterDeferred appends c like Register, but c only starts with
// StartDeferred.
func (r *Registry) RegisterDeferred(c Component) error {
	return r.register(c, true)
}

func (r *Registry) register(c Component, deferred bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index(c.Name()) >= 0 {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.entries = append(r.entries, &entry{Component: c, deferred: deferred})
	r.log.Debug("Component registered", logger.Fields(logger.FieldComponent, c.Name(), "deferred", deferred))
	return nil
}

// StartAll starts every component not registered as deferred. When one
// fails, those already running are stopped and the failure is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	return r.start(ctx, false)
}

// StartDeferred starts the deferred components, with the same failure
// handling as StartAll.
func (r *Registry) StartDeferred(ctx context.Context) error {
	return r.start(ctx, true)
}

func (r *Registry) start(ctx context.Context, deferred bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := slices.DeleteFunc(slices.Clone(r.entries), func(e *entry) bool {
		return e.started || e.deferred != deferred
	})
	if len(pending) == 0 {
		return nil
	}
	r.log.Info("Starting components", logger.Fields("count", len(pending), "deferred", deferred))
	for _, e := range pending {
		began := time.Now()
		if err := e.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Fields(logger.FieldComponent, e.Name(), logger.FieldError, err))
			_ = r.stopStarted(context.WithoutCancel(ctx))
			return fmt.Errorf("failed to start %s: %w", e.Name(), err)
		}
		e.started = true
		r.log.Debug("Component started", logger.Fields(
			logger.FieldComponent, e.Name(),
			logger.FieldDuration, time.Since(began).Milliseconds(),
		))
	}
	r.log.Info("Components started successfully", logger.Fields("deferred", deferred))
	return nil
}

// StopAll stops the running components, last registered first, and joins
// their errors. Each Stop gets at most DefaultStopTimeout.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("Stopping all components")
	err := r.stopStarted(ctx)
	if err == nil {
		r.log.Info("All components stopped successfully")
	}
	return err
}

func (r *Registry) stopStarted(ctx context.Context) error {
	var errs []error
	for _, e := range slices.Backward(r.entries) {
		if !e.started {
			continue
		}
		stopCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
		err := e.Stop(stopCtx)
		cancel()
		e.started = false

		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", e.Name(), err))
			r.log.Error("Component stop failed", logger.Fields(logger.FieldComponent, e.Name(), logger.FieldError, err))
			continue
		}
		r.log.Info("Component stopped", logger.Fields(logger.FieldComponent, e.Name()))
	}
	return errors.Join(errs...)
}

// HealthAll asks every component for its health, in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Health(ctx)
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(name); i >= 0 {
		return r.entries[i].Component
	}
	return nil
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Component, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Component
	}
	return out
}

func (r *Registry) index(name string) int {
	return slices.IndexFunc(r.entries, func(e *entry) bool { return e.Name() == name })
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/userauth/component"
	"github.com/kbukum/userauth/logger"
)

// Hook runs during shutdown, before the components are stopped.
type Hook func(ctx context.Context) error

// ConfigureFunc wires the business layer onto started infrastructure.
type ConfigureFunc[C Config] func(ctx context.Context, app *App[C]) error

// App runs a service: it starts the registered components in order, wires
// the handlers, starts the servers, blocks until SIGINT/SIGTERM and stops
// everything in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storeComponent)
//	app.RegisterServer(server.NewComponent(srv))
//	app.OnConfigure(wireRoutes)
//	return app.Run(ctx)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	summary         *Summary
	shutdownTimeout time.Duration
	configure       []ConfigureFunc[C]
	stopping        []Hook
}

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := options{shutdownTimeout: base.ShutdownTimeoutDuration()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		logger.Init(&base.Logging)
		o.logger = logger.GetGlobalLogger()
	}

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(o.logger),
		Logger:          o.logger,
		summary:         NewSummary(base.Name, base.Version, o.summaryOut),
		shutdownTimeout: o.shutdownTimeout,
	}, nil
}

// RegisterComponent adds c to the registry. Components start in
// registration order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// RegisterServer adds a component that accepts traffic. It starts after the
// OnConfigure callbacks, so no request reaches a route that is not yet
// mounted.
func (a *App[C]) RegisterServer(c component.Component) error {
	return a.Components.RegisterDeferred(c)
}

// OnConfigure registers fn to run once every component has started, before
// the servers.
func (a *App[C]) OnConfigure(fn ConfigureFunc[C]) {
	a.configure = append(a.configure, fn)
}

// OnStop registers hooks that run first during shutdown, while the
// components are still up.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.stopping = append(a.stopping, hooks...)
}

// ReadyCheck reports the components that are not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		s := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			s += "(" + h.Message + ")"
		}
		bad = append(bad, s)
	}
	if len(bad) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Run starts the application, blocks until a shutdown signal arrives or ctx
// is canceled, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		if stopErr := a.Shutdown(); stopErr != nil {
			a.Logger.Error("Cleanup after failed start", logger.Fields(logger.FieldError, stopErr))
		}
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	a.Logger.Info("Application ready, waiting for shutdown signal")
	<-sigCtx.Done()
	if ctx.Err() == nil {
		a.Logger.Info("Received shutdown signal")
	}
	return a.Shutdown()
}

// Start starts the components, runs the configure callbacks, starts the
// servers and prints the startup summary. An unhealthy component after configuration is logged,
// not fatal.
func (a *App[C]) Start(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	for _, fn := range a.configure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.Components.StartDeferred(ctx); err != nil {
		return fmt.Errorf("server start failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err))
	}

	a.summary.Display(ctx, a.Components, time.Since(began))
	return nil
}

// Shutdown runs the OnStop hooks and stops the components within the
// shutdown timeout.
func (a *App[C]) Shutdown() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.shutdownTimeout.String()))
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	for i, h := range a.stopping {
		if err := h(ctx); err != nil {
			a.Logger.Error("OnStop hook failed", logger.Fields("hook", i, logger.FieldError, err))
			errs = append(errs, err)
		}
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err))
		errs = append(errs, err)
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}


// Command userauth serves the account API: registration, login and
// token-protected profile reads and updates.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/userauth/auth/jwt"
	"github.com/kbukum/userauth/auth/password"
	"github.com/kbukum/userauth/bootstrap"
	"github.com/kbukum/userauth/config"
	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/observability"
	"github.com/kbukum/userauth/resilience"
	"github.com/kbukum/userauth/server"
	"github.com/kbukum/userauth/server/middleware"
	"github.com/kbukum/userauth/user"
	"github.com/kbukum/userauth/version"
)

const serviceName = "userauth"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.GetShortVersion()
	}

	app, _, err := newApp(&cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// newApp registers the telemetry, store and HTTP server components and the
// callback that mounts the account API once they have started.
func newApp(cfg *Config, opts ...bootstrap.Option) (*bootstrap.App[*Config], *server.Server, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}

	telemetry := observability.NewComponent(cfg.Telemetry, observability.Identity{
		Service:     cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, app.Logger)
	if err := app.RegisterComponent(telemetry); err != nil {
		return nil, nil, err
	}

	backend := newStoreBackend(cfg.Store, app.Logger)
	if err := app.RegisterComponent(backend.component()); err != nil {
		return nil, nil, err
	}

	srv := server.New(cfg.Server, app.Logger)
	if err := app.RegisterServer(server.NewComponent(srv)); err != nil {
		return nil, nil, err
	}

	app.OnConfigure(func(ctx context.Context, app *bootstrap.App[*Config]) error {
		return configure(ctx, app, backend, srv)
	})
	app.OnStop(func(ctx context.Context) error {
		srv.Drain(ctx)
		return nil
	})
	return app, srv, nil
}

// configure wires the account service onto the started store and mounts
// its routes before the server starts listening.
func configure(ctx context.Context, app *bootstrap.App[*Config], backend *storeBackend, srv *server.Server) error {
	cfg := app.Cfg

	store, err := backend.open(ctx)
	if err != nil {
		return err
	}

	codec, err := jwt.NewCodec(&cfg.Auth.JWT)
	if err != nil {
		return err
	}
	metrics, err := observability.NewMetrics(observability.Meter(serviceName))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	opts := []user.Option{
		user.WithLogger(app.Logger),
		user.WithMetrics(metrics),
		user.WithOperationTimeout(cfg.Store.operationTimeout()),
	}
	if b := cfg.Store.Breaker; !b.Disabled {
		opts = append(opts, user.WithBreaker(resilience.BreakerConfig{
			Name:             cfg.Store.Driver,
			FailureThreshold: b.FailureThreshold,
			Cooldown:         b.cooldown(),
			OnStateChange: func(name string, from, to resilience.State) {
				metrics.RecordBreakerTransition(context.Background(), name, from.String(), to.String())
				app.Logger.Warn("Store circuit breaker changed state", logger.Fields(
					"store", name, "from", from.String(), "to", to.String(),
				))
			},
		}))
	}
	svc := user.NewService(store, password.NewHasher(cfg.Auth.Password), codec, opts...)

	user.RegisterRoutes(srv.API(), user.NewHandler(svc), user.RouteConfig{
		Authenticate: middleware.Auth(middleware.AuthConfig{Decoder: codec, Logger: app.Logger}),
		Limit:        srv.AuthRateLimit(),
	})
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll)

	app.Logger.Info("Account API configured", logger.Fields(
		"store", cfg.Store.Driver,
		"auth", cfg.Auth.Describe(),
	))
	return nil
}

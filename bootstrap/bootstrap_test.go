package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/userauth/component"
	"github.com/kbukum/userauth/config"
	"github.com/kbukum/userauth/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return nil
}
func (m *mockComponent) Health(ctx context.Context) component.Health { return m.health }
func (m *mockComponent) Describe() component.Description {
	return component.Description{Name: "Mock " + m.name, Type: "test", Details: "in-memory", Port: 9}
}
func (m *mockComponent) Routes() []component.Route {
	return []component.Route{{Method: "GET", Path: "/" + m.name, Handler: "probe"}}
}

func newTestApp(t *testing.T, out *bytes.Buffer) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "test-svc", Version: "1.0.0"}}
	app, err := NewApp(cfg, WithLogger(logger.NewNop()), WithSummaryOutput(out), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	if app.Name != "test-svc" || app.Version != "1.0.0" {
		t.Errorf("unexpected name/version %q %q", app.Name, app.Version)
	}
	if app.Cfg.Environment != config.EnvDevelopment {
		t.Errorf("expected defaults applied, got environment %q", app.Cfg.Environment)
	}
	if app.shutdownTimeout != time.Second {
		t.Errorf("expected graceful timeout option to apply, got %s", app.shutdownTimeout)
	}
}

func TestNewApp_ShutdownTimeoutFromConfig(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "svc", ShutdownTimeout: "3s"}}
	app, err := NewApp(cfg, WithLogger(logger.NewNop()), WithSummaryOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	if app.shutdownTimeout != 3*time.Second {
		t.Errorf("shutdown timeout = %s", app.shutdownTimeout)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.NewNop()))
	if err == nil || !strings.Contains(err.Error(), "config validation") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApp_RunLifecycle(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)
	c := &mockComponent{name: "store", health: component.Health{Name: "store", Status: component.StatusHealthy}}
	if err := app.RegisterComponent(c); err != nil {
		t.Fatalf("RegisterComponent: %v", err)
	}

	var order []string
	ctx, cancel := context.WithCancel(context.Background())
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		if !c.started {
			t.Error("components must be started before configure")
		}
		cancel()
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		if c.stopped {
			t.Error("OnStop hooks must run before components stop")
		}
		return nil
	})

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !c.started || !c.stopped {
		t.Errorf("expected component started and stopped, got %v %v", c.started, c.stopped)
	}
	if got := strings.Join(order, ","); got != "configure,stop" {
		t.Errorf("hook order = %s", got)
	}

	summary := out.String()
	for _, want := range []string{"test-svc v1.0.0 started", "Infrastructure", "Mock store", "[test]", ":9", "Routes (1)", "/store", "-> probe", "Health"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestApp_RunStartFailure(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	first := &mockComponent{name: "a"}
	app.RegisterComponent(first)
	app.RegisterComponent(&mockComponent{name: "b", startErr: fmt.Errorf("unreachable")})

	err := app.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unreachable") {
		t.Fatalf("expected start error, got %v", err)
	}
	if !first.stopped {
		t.Error("expected the started component to be stopped")
	}
}

func TestApp_ReadyCheck(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	app.RegisterComponent(&mockComponent{name: "db", health: component.Health{Name: "db", Status: component.StatusUnhealthy, Message: "ping failed"}})

	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "db=unhealthy(ping failed)") {
		t.Errorf("unexpected ready check result %v", err)
	}
}

func TestApp_OnStopErrorIsReturned(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	c := &mockComponent{name: "store"}
	app.RegisterComponent(c)
	app.OnStop(func(context.Context) error { return fmt.Errorf("drain failed") })

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := app.Shutdown(); err == nil || !strings.Contains(err.Error(), "drain failed") {
		t.Errorf("expected hook error, got %v", err)
	}
	if !c.stopped {
		t.Error("components must still be stopped after a failing hook")
	}
}

func TestApp_ConfigureError(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { return fmt.Errorf("wire failed") })
	if err := app.Start(context.Background()); err == nil || !strings.Contains(err.Error(), "configuration failed") {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestApp_ServerStartsAfterConfigure(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	store := &mockComponent{name: "store"}
	srv := &mockComponent{name: "http"}
	app.RegisterComponent(store)
	if err := app.RegisterServer(srv); err != nil {
		t.Fatalf("RegisterServer: %v", err)
	}
	app.OnConfigure(func(context.Context, *App[*testConfig]) error {
		if !store.started {
			t.Error("store must be started before configure")
		}
		if srv.started {
			t.Error("server must not listen before the routes are wired")
		}
		return nil
	})

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !srv.started {
		t.Error("server was not started")
	}
	if err := app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !srv.stopped || !store.stopped {
		t.Errorf("stopped: server=%v store=%v", srv.stopped, store.stopped)
	}
}

func TestApp_ConfigureErrorKeepsServerDown(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	srv := &mockComponent{name: "http"}
	app.RegisterServer(srv)
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { return fmt.Errorf("wire failed") })

	if err := app.Start(context.Background()); err == nil {
		t.Fatal("expected configuration error")
	}
	if srv.started {
		t.Error("server must not start when configuration fails")
	}
}

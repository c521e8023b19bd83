package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errDown = errors.New("connection refused")

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retried []int
	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }

	v, err := Retry(context.Background(), cfg, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errDown
		}
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Fatalf("got %q, %v", v, err)
	}
	if calls != 3 || len(retried) != 2 {
		t.Errorf("calls=%d retried=%v", calls, retried)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastRetry(4), func(context.Context) (int, error) {
		calls++
		return 0, errDown
	})
	if !errors.Is(err, errDown) || calls != 4 {
		t.Errorf("calls=%d err=%v", calls, err)
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("auth failed")
	cfg := fastRetry(5)
	cfg.RetryIf = func(err error) bool { return errors.Is(err, errDown) }

	calls := 0
	_, err := Retry(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("calls=%d err=%v", calls, err)
	}
}

func TestRetry_ContextCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Hour}
	cfg.OnRetry = func(int, error, time.Duration) { cancel() }

	_, err := Retry(ctx, cfg, func(context.Context) (int, error) { return 0, errDown })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_Backoff(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: 5 * time.Second}
	cfg.applyDefaults()

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := cfg.backoff(i + 1); got != w {
			t.Errorf("attempt %d: %s, want %s", i+1, got, w)
		}
	}

	cfg.Jitter = 0.5
	for i := 0; i < 50; i++ {
		if d := cfg.backoff(1); d < 500*time.Millisecond || d > 1500*time.Millisecond {
			t.Fatalf("jittered backoff out of range: %s", d)
		}
	}
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestBreaker_OpensAndRecovers(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	var transitions []string
	b := NewBreaker(BreakerConfig{
		Name:             "store",
		FailureThreshold: 2,
		Cooldown:         time.Minute,
		Now:              clk.now,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+">"+to.String())
		},
	})
	fail := func() error { return errDown }
	ok := func() error { return nil }

	_ = b.Do(fail)
	if b.State() != StateClosed {
		t.Fatalf("one failure must not open, state %s", b.State())
	}
	_ = b.Do(fail)
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %s", b.State())
	}

	called := false
	if err := b.Do(func() error { called = true; return nil }); !errors.Is(err, ErrOpen) || called {
		t.Fatalf("open breaker must reject without calling, err=%v called=%v", err, called)
	}

	clk.advance(time.Minute)
	if b.State() != StateHalfOpen {
		t.Fatalf("expected half-open after cooldown, got %s", b.State())
	}
	if err := b.Do(ok); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("successful probe must close, got %s", b.State())
	}

	want := []string{"store:closed>open", "store:open>half-open", "store:half-open>closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, transitions[i], want[i])
		}
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, Cooldown: time.Second, Now: clk.now})

	_ = b.Do(func() error { return errDown })
	clk.advance(time.Second)
	_ = b.Do(func() error { return errDown })

	if b.State() != StateOpen {
		t.Fatalf("failed probe must reopen, got %s", b.State())
	}
	if err := b.Do(func() error { return nil }); !errors.Is(err, ErrOpen) {
		t.Errorf("expected ErrOpen right after a failed probe, got %v", err)
	}
}

func TestBreaker_IgnoresNonFailures(t *testing.T) {
	notFound := errors.New("not found")
	b := NewBreaker(BreakerConfig{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return err != nil && !errors.Is(err, notFound) },
	})

	for i := 0; i < 5; i++ {
		if err := b.Do(func() error { return notFound }); !errors.Is(err, notFound) {
			t.Fatalf("error must pass through unchanged, got %v", err)
		}
	}
	if b.State() != StateClosed {
		t.Errorf("domain errors must not open the breaker, got %s", b.State())
	}
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2})

	_ = b.Do(func() error { return errDown })
	_ = b.Do(func() error { return nil })
	_ = b.Do(func() error { return errDown })
	if b.State() != StateClosed {
		t.Errorf("failures are counted consecutively, got %s", b.State())
	}
}

func TestBreaker_PanickingProbeReopens(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute, Now: clk.now})

	_ = b.Do(func() error { return errDown })
	clk.advance(time.Minute)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("the panic must reach the caller")
			}
		}()
		_ = b.Do(func() error { panic("driver bug") })
	}()
	if b.State() != StateOpen {
		t.Fatalf("a panicking probe must reopen the breaker, got %s", b.State())
	}

	clk.advance(time.Hour)
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("breaker stuck after a panicking probe: %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("expected closed, got %s", b.State())
	}
}

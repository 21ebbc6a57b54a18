package fractal

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestDelayPolicyDelayFor verifies delay bounds and determinism.
func TestDelayPolicyDelayFor(t *testing.T) {
	t.Parallel()

	d := NewDeriver("s")

	t.Run("no delay at or below the activation depth", func(t *testing.T) {
		t.Parallel()
		p := NewDelayPolicy(100*time.Millisecond, 2*time.Second, 3)
		for eff := 0; eff <= 3; eff++ {
			if got := p.DelayFor(d.Root("/"), eff); got != 0 {
				t.Errorf("expected zero delay at effective depth %d, got %v", eff, got)
			}
		}
	})

	t.Run("delay stays within the configured range", func(t *testing.T) {
		t.Parallel()
		min, max := 100*time.Millisecond, 2*time.Second
		p := NewDelayPolicy(min, max, 0)
		tok := d.Root("/")
		for eff := 1; eff < 40; eff++ {
			got := p.DelayFor(tok, eff)
			if got < min || got > max {
				t.Errorf("delay %v outside [%v, %v]", got, min, max)
			}
			tok = d.Derive(tok, 0, eff)
		}
	})

	t.Run("delay is deterministic per token", func(t *testing.T) {
		t.Parallel()
		p := NewDelayPolicy(time.Millisecond, time.Second, 0)
		tok := d.Root("/")
		if p.DelayFor(tok, 5) != p.DelayFor(tok, 5) {
			t.Error("expected identical delays for identical inputs")
		}
	})

	t.Run("inverted range collapses to the lower bound", func(t *testing.T) {
		t.Parallel()
		p := NewDelayPolicy(time.Second, time.Millisecond, 0)
		if got := p.DelayFor(d.Root("/"), 5); got != time.Second {
			t.Errorf("expected collapsed delay of 1s, got %v", got)
		}
	})

	t.Run("negative bounds are clamped to zero", func(t *testing.T) {
		t.Parallel()
		p := NewDelayPolicy(-time.Second, -time.Millisecond, 0)
		if got := p.DelayFor(d.Root("/"), 5); got != 0 {
			t.Errorf("expected zero delay, got %v", got)
		}
	})
}

// TestSleep verifies context-aware sleeping.
func TestSleep(t *testing.T) {
	t.Parallel()

	t.Run("zero duration returns immediately", func(t *testing.T) {
		t.Parallel()
		if err := Sleep(context.Background(), 0); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("cancellation aborts the wait", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Sleep(ctx, time.Minute)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("short sleep completes without error", func(t *testing.T) {
		t.Parallel()
		if err := Sleep(context.Background(), time.Millisecond); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

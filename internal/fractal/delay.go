package fractal

import (
	"context"
	"time"

	"github.com/nao1215/tsukuyomi/internal/model"
)

// DelayPolicy selects the artificial delay applied before responding.
//
// The delay throttles automated high-rate fetching without real computational
// cost. It affects only the current request's latency; sleeping happens in
// the request's own goroutine, so concurrent requests are never serialized
// behind a shared timer.
type DelayPolicy struct {
	// min and max bound the selected delay.
	min time.Duration
	max time.Duration

	// afterDepth is the effective depth beyond which delays apply.
	// Shallow pages respond promptly so the site front looks healthy.
	afterDepth int
}

// NewDelayPolicy creates a DelayPolicy.
// Negative durations are clamped to zero and an inverted range is collapsed
// to its lower bound; configuration-level validation warns about both, but
// the policy must stay safe even if handed bad values directly.
func NewDelayPolicy(min, max time.Duration, afterDepth int) *DelayPolicy {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return &DelayPolicy{
		min:        min,
		max:        max,
		afterDepth: afterDepth,
	}
}

// DelayFor returns the delay for a page, a value in [min, max].
//
// The choice is deterministic in the token and effective depth rather than
// random: repeated fetches of the same page behave identically, which keeps
// response timing from leaking that content is generated.
func (p *DelayPolicy) DelayFor(token model.Token, effectiveDepth int) time.Duration {
	if effectiveDepth <= p.afterDepth {
		return 0
	}
	if p.max == p.min {
		return p.min
	}
	f := fraction(Digest(string(token) + ":delay"))
	return p.min + time.Duration(f*float64(p.max-p.min))
}

// Sleep waits for the given duration or until the context is cancelled.
// Cancellation (client disconnect, timeout) aborts only this request's wait.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

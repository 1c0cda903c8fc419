/*
timer.go - Wall-clock session accrual timer

PURPOSE:
  Tracks one running earning session per user. The timer is a two-state
  machine (Idle / Running) whose elapsed time is ALWAYS derived from
  "now minus the stored start instant", never from an incrementing tick
  counter.

SUSPENSION INVARIANCE:
  The host may be suspended at any point (screen lock, backgrounding).
  Because every read recomputes from the start instant, suspending and
  resuming neither loses nor double-counts time. Any periodic display
  tick is cosmetic and must call back into ElapsedSeconds/Earned rather
  than accumulating its own counter.

FINISH CONTRACT:
  Finish clears the start instant, so the caller MUST read Earned before
  calling Finish and must not suspend between the two. Account.FinishSession
  performs this read-then-clear atomically under its lock; external
  callers should go through it.

ERROR MODEL:
  Misuse is a no-op, never a panic or error:
  - Start while Running: ignored (the original start instant wins)
  - ElapsedSeconds/Earned while Idle: zero
  - Finish/Discard while Idle: no-op

SEE ALSO:
  - account.go: Serializes access and enforces the finish contract
*/
package alchemy

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies the current instant. Injectable so suspension gaps can
// be simulated in tests without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// =============================================================================
// TIMER - Idle/Running state machine
// =============================================================================

// Timer tracks a single earning session. Not safe for concurrent use on
// its own; Account serializes access (single-writer discipline).
type Timer struct {
	clock   Clock
	start   time.Time
	running bool
}

// NewTimer creates an Idle timer on the given clock (nil = system clock).
func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = systemClock{}
	}
	return &Timer{clock: clock}
}

// Running reports whether a session is active.
func (t *Timer) Running() bool { return t.running }

// StartedAt returns the session start instant, zero when Idle.
func (t *Timer) StartedAt() time.Time {
	if !t.running {
		return time.Time{}
	}
	return t.start
}

// Start begins a session. Redundant starts while Running are no-ops:
// the original start instant is preserved.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.start = t.clock.Now()
	t.running = true
}

// Resume restores a Running session from a persisted start instant,
// e.g. after a process restart. Recomputing from the stored instant is
// the only correct way to re-enter a suspended session.
func (t *Timer) Resume(start time.Time) {
	if t.running || start.IsZero() {
		return
	}
	t.start = start
	t.running = true
}

// ElapsedSeconds returns whole seconds since the session started,
// zero when Idle.
func (t *Timer) ElapsedSeconds() int64 {
	if !t.running {
		return 0
	}
	elapsed := t.clock.Now().Sub(t.start)
	if elapsed < 0 {
		return 0
	}
	return int64(elapsed / time.Second)
}

// Elapsed returns the exact duration since the session started.
func (t *Timer) Elapsed() time.Duration {
	if !t.running {
		return 0
	}
	elapsed := t.clock.Now().Sub(t.start)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Earned returns ratePerSecond x elapsed as a continuous (non-floored)
// amount. Precision matters for short sessions, so the fractional
// second is kept.
func (t *Timer) Earned(ratePerSecond decimal.Decimal) Money {
	if !t.running {
		return ZeroMoney()
	}
	seconds := decimal.NewFromFloat(t.Elapsed().Seconds())
	return MoneyFromDecimal(ratePerSecond.Mul(seconds))
}

// Finish ends the session. The caller must have read Earned already;
// the start instant is cleared here. No-op when Idle.
func (t *Timer) Finish() {
	t.running = false
	t.start = time.Time{}
}

// Discard ends the session and intentionally drops any earned value.
// Always safe, idempotent, leaves the timer Idle.
func (t *Timer) Discard() {
	t.running = false
	t.start = time.Time{}
}

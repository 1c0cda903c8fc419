package alchemy_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alchemy/earnings-engine/alchemy"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// newTestAccount returns an account earning exactly 1 unit/second
// (salary 576000 over 8h x 20d = 160h -> 3600/h -> 1/s).
func newTestAccount(locale alchemy.Locale, clock alchemy.Clock) *alchemy.Account {
	a := alchemy.NewAccount("user-1", locale, clock)
	a.SetConfig(alchemy.NewSalaryConfig(576000, 8, 20))
	return a
}

// =============================================================================
// SESSION LIFECYCLE TESTS
// =============================================================================

func TestAccount_FinishSettlesIntoLifetime(t *testing.T) {
	// GIVEN: A 1/s account running for 90 seconds
	// WHEN: Finishing the session
	// THEN: Receipt carries 90, lifetime total is 90, timer is Idle

	clock := newFakeClock()
	a := newTestAccount(alchemy.LocaleTW, clock)

	a.StartSession()
	clock.Advance(90 * time.Second)

	receipt, ok := a.FinishSession(false)
	if !ok {
		t.Fatal("expected a settled receipt")
	}
	if !approxEqual(receipt.Earned.Value, decimal.NewFromInt(90)) {
		t.Errorf("expected 90 earned, got %v", receipt.Earned)
	}
	if !approxEqual(a.LifetimeTotal().Value, decimal.NewFromInt(90)) {
		t.Errorf("expected lifetime 90, got %v", a.LifetimeTotal())
	}
	if a.Session().Running {
		t.Error("session should be Idle after finish")
	}
	if receipt.ElapsedSeconds != 90 {
		t.Errorf("expected 90 elapsed seconds, got %d", receipt.ElapsedSeconds)
	}
}

func TestAccount_FinishWhileIdleIsRejectedWithoutSideEffects(t *testing.T) {
	a := newTestAccount(alchemy.LocaleTW, newFakeClock())

	if _, ok := a.FinishSession(false); ok {
		t.Error("finishing an idle account must not settle")
	}
	if !a.LifetimeTotal().IsZero() {
		t.Error("lifetime total must be untouched")
	}
}

func TestAccount_DiscardDropsEarnings(t *testing.T) {
	// GIVEN: A running session with accrued value
	// WHEN: Discarding
	// THEN: Idle, nothing added; repeated discard stays safe

	clock := newFakeClock()
	a := newTestAccount(alchemy.LocaleTW, clock)

	a.StartSession()
	clock.Advance(time.Hour)
	a.DiscardSession()
	a.DiscardSession()

	if a.Session().Running {
		t.Error("session should be Idle after discard")
	}
	if !a.LifetimeTotal().IsZero() {
		t.Errorf("discard must not accrue, got %v", a.LifetimeTotal())
	}
}

func TestAccount_ReceiptLevelUpSingleFire(t *testing.T) {
	// GIVEN: A session long enough to cross several early thresholds
	// WHEN: Finishing
	// THEN: Exactly one level-up addressed to the highest index reached

	clock := newFakeClock()
	a := newTestAccount(alchemy.LocaleTW, clock)

	a.StartSession()
	clock.Advance(5000 * time.Second) // 5000 earned: crosses levels 1-4

	receipt, _ := a.FinishSession(false)
	if receipt.LevelUp == nil {
		t.Fatal("expected a level-up")
	}
	if receipt.LevelUp.FromIndex != 0 || receipt.LevelUp.ToIndex != receipt.Progress.LevelIndex {
		t.Errorf("expected one event 0 -> %d, got %+v",
			receipt.Progress.LevelIndex, receipt.LevelUp)
	}
	if receipt.Progress.LevelIndex < 2 {
		t.Errorf("expected at least level 2 at total 5000, got %d", receipt.Progress.LevelIndex)
	}
}

// =============================================================================
// LOCALE SWITCH TESTS
// =============================================================================

func TestAccount_SwitchLocaleRescalesLifetimeOnce(t *testing.T) {
	// GIVEN: A TW account with lifetime 3000
	// WHEN: Switching to EN, then "switching" to EN again
	// THEN: 3000/30=100 after the first switch; the second is a no-op

	a := newTestAccount(alchemy.LocaleTW, newFakeClock())
	a.RestoreLifetime(alchemy.NewMoneyFromInt(3000))

	a.SwitchLocale(alchemy.LocaleEN)
	if !a.LifetimeTotal().Value.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100 after switch, got %v", a.LifetimeTotal())
	}

	a.SwitchLocale(alchemy.LocaleEN)
	if !a.LifetimeTotal().Value.Equal(decimal.NewFromInt(100)) {
		t.Errorf("repeated switch must not rescale again, got %v", a.LifetimeTotal())
	}
}

func TestAccount_SwitchLocaleDuringRunningSession(t *testing.T) {
	// GIVEN: A running session and an existing lifetime total
	// WHEN: The locale switches mid-session
	// THEN: Only the lifetime total is converted. The running session's
	//       accrual basis is untouched: its earnings are whatever the
	//       rate yields at read time, and settle into the new-currency
	//       total without any extra conversion.

	clock := newFakeClock()
	a := newTestAccount(alchemy.LocaleTW, clock)
	a.RestoreLifetime(alchemy.NewMoneyFromInt(3000))

	a.StartSession()
	clock.Advance(60 * time.Second) // 60 earned so far at 1/s

	a.SwitchLocale(alchemy.LocaleEN)

	// Lifetime converted exactly once; session accrual untouched.
	if !a.LifetimeTotal().Value.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected converted lifetime 100, got %v", a.LifetimeTotal())
	}
	if !approxEqual(a.Session().Earned.Value, decimal.NewFromInt(60)) {
		t.Errorf("running session earnings must not be converted, got %v", a.Session().Earned)
	}

	clock.Advance(30 * time.Second)
	receipt, _ := a.FinishSession(false)

	// 90 session units settle as-is into the EN total: 100 + 90 = 190.
	if !approxEqual(receipt.Earned.Value, decimal.NewFromInt(90)) {
		t.Errorf("expected 90 session earnings, got %v", receipt.Earned)
	}
	if !approxEqual(a.LifetimeTotal().Value, decimal.NewFromInt(190)) {
		t.Errorf("expected lifetime 190 after settle, got %v", a.LifetimeTotal())
	}
}

func TestAccount_SwitchLocaleDoesNotFireLevelUp(t *testing.T) {
	// A switch can shift the resolved level index (different table);
	// the tracker must re-prime instead of treating it as progress.

	clock := newFakeClock()
	a := newTestAccount(alchemy.LocaleTW, clock)
	a.RestoreLifetime(alchemy.NewMoneyFromInt(30000))
	a.SwitchLocale(alchemy.LocaleEN)

	a.StartSession()
	clock.Advance(time.Second)
	receipt, _ := a.FinishSession(false)
	if receipt.LevelUp != nil {
		t.Errorf("level shift from locale switch must not fire, got %+v", receipt.LevelUp)
	}
}

// =============================================================================
// SCORE & RESET TESTS
// =============================================================================

func TestAccount_ScoreIsNormalized(t *testing.T) {
	a := newTestAccount(alchemy.LocaleEN, newFakeClock())
	a.RestoreLifetime(alchemy.NewMoneyFromInt(1000))

	if !a.Score().Value.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("expected normalized score 30000, got %v", a.Score())
	}
}

func TestAccount_ResetZeroesAndReprimes(t *testing.T) {
	// GIVEN: An account with progress
	// WHEN: Resetting the lifetime total
	// THEN: Zeroed; climbing back up fires fresh level-ups

	clock := newFakeClock()
	a := newTestAccount(alchemy.LocaleTW, clock)
	a.RestoreLifetime(alchemy.NewMoneyFromInt(50000))

	a.ResetLifetime()
	if !a.LifetimeTotal().IsZero() {
		t.Fatalf("expected zero after reset, got %v", a.LifetimeTotal())
	}

	a.StartSession()
	clock.Advance(2000 * time.Second)
	receipt, _ := a.FinishSession(false)
	if receipt.LevelUp == nil {
		t.Error("expected a fresh level-up after reset")
	}
}

func TestAccount_ListenerFiresAtBoundary(t *testing.T) {
	// GIVEN: A boundary listener
	// WHEN: Mutations happen
	// THEN: One notification per mutation, carrying the new state

	clock := newFakeClock()
	a := newTestAccount(alchemy.LocaleTW, clock)

	var kinds []alchemy.ChangeKind
	a.SetListener(func(c alchemy.Change) { kinds = append(kinds, c.Kind) })

	a.StartSession()
	clock.Advance(time.Second)
	a.FinishSession(false)
	a.SwitchLocale(alchemy.LocaleEN)
	a.ResetLifetime()

	want := []alchemy.ChangeKind{
		alchemy.ChangeSessionStart,
		alchemy.ChangeSessionFinish,
		alchemy.ChangeLocaleSwitch,
		alchemy.ChangeReset,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d notifications, got %d (%v)", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("notification %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestAccount_RestoreNeverFiresLevelUp(t *testing.T) {
	// Restoring a persisted total primes the tracker at that level.
	clock := newFakeClock()
	a := newTestAccount(alchemy.LocaleTW, clock)
	a.RestoreLifetime(alchemy.NewMoneyFromInt(100000))

	a.StartSession()
	clock.Advance(time.Second)
	receipt, _ := a.FinishSession(false)
	if receipt.LevelUp != nil {
		t.Errorf("restore must not manufacture a level-up, got %+v", receipt.LevelUp)
	}
}

/*
account.go - Single-writer account state

PURPOSE:
  The source application kept user and session state in global mutable
  stores. Here that state is an explicit Account object handed into the
  engine by reference, with a single-writer update discipline: every
  mutation goes through Account methods under one mutex, so the core is
  safe to call from any goroutine.

STATE:
  - SalaryConfig and derived rate
  - Lifetime total (denominated in the active locale's currency)
  - Locale
  - The session timer (at most one active session)
  - A progression Tracker for level-up detection

MUTATION RULES (the only paths that touch the lifetime total):
  (a) FinishSession adds the session's earnings
  (b) ResetLifetime zeroes it
  (c) SwitchLocale rescales it in place, exactly once per actual change

LOCALE SWITCH DURING A RUNNING SESSION:
  The conversion applies ONLY to the lifetime total. The running
  session's accrual basis is untouched: its earnings are computed in
  whatever currency is active when they are read. A session finished
  after the switch therefore settles in the new currency. This boundary
  is easy to get wrong and is tested explicitly.

NOTIFICATIONS:
  An optional listener fires after each mutation, outside the pure
  functions, so a UI or sync collaborator can react. The listener is
  invoked while the lock is held; it must not call back into the Account.
*/
package alchemy

import (
	"sync"
	"time"
)

// =============================================================================
// EVENTS & RECEIPTS
// =============================================================================

// ChangeKind labels a listener notification.
type ChangeKind string

const (
	ChangeConfig        ChangeKind = "config"
	ChangeSessionStart  ChangeKind = "session_start"
	ChangeSessionFinish ChangeKind = "session_finish"
	ChangeSessionDrop   ChangeKind = "session_discard"
	ChangeLocaleSwitch  ChangeKind = "locale_switch"
	ChangeReset         ChangeKind = "reset"
)

// Change is pushed to the boundary listener after a mutation.
type Change struct {
	Kind          ChangeKind
	LifetimeTotal Money
	Locale        Locale
}

// SessionReceipt is the one-shot settlement of a finished session.
type SessionReceipt struct {
	Earned         Money
	ElapsedSeconds int64
	ElapsedMinutes float64
	Classification ExchangeClassification
	VariantPool    string
	Progress       Progress
	LevelUp        *LevelUpEvent
}

// SessionStatus is the read-only view of a running session.
type SessionStatus struct {
	Running        bool
	StartedAt      time.Time
	ElapsedSeconds int64
	Earned         Money
}

// =============================================================================
// ACCOUNT
// =============================================================================

// Account is the per-user state handle. Construct with NewAccount;
// the zero value is not usable.
type Account struct {
	mu sync.Mutex

	userID   string
	nickname string
	config   SalaryConfig
	locale   Locale
	lifetime Money
	timer    *Timer
	tracker  Tracker

	listener func(Change)
}

// NewAccount creates an account in the Idle session state. clock may be
// nil for the system clock. The progression tracker is primed from the
// initial total so restoring a persisted account never fires a level-up.
func NewAccount(userID string, locale Locale, clock Clock) *Account {
	a := &Account{
		userID: userID,
		locale: locale,
		config: DefaultSalaryConfig(),
		timer:  NewTimer(clock),
	}
	a.tracker.Observe(ResolveProgress(a.lifetime, a.locale))
	return a
}

// SetListener installs the boundary notification hook. Pass nil to
// remove it.
func (a *Account) SetListener(fn func(Change)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = fn
}

func (a *Account) notify(kind ChangeKind) {
	if a.listener != nil {
		a.listener(Change{Kind: kind, LifetimeTotal: a.lifetime, Locale: a.locale})
	}
}

// UserID returns the opaque user id ("" when identity has not been
// issued yet; score sync treats that as deferred, never as an error).
func (a *Account) UserID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userID
}

// SetIdentity attaches an issued identity and display nickname.
func (a *Account) SetIdentity(userID, nickname string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userID = userID
	a.nickname = nickname
}

// Nickname returns the display name for leaderboard rows.
func (a *Account) Nickname() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nickname
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetConfig replaces the salary configuration (clamped at the boundary).
func (a *Account) SetConfig(cfg SalaryConfig) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config = cfg.Clamp()
	a.notify(ChangeConfig)
}

// Config returns the current salary configuration.
func (a *Account) Config() SalaryConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.config
}

// Rate returns the derived earning rate for the current configuration.
func (a *Account) Rate() Rate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return CalcRate(a.config)
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// StartSession begins a session. No-op when one is already running.
func (a *Account) StartSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer.Running() {
		return
	}
	a.timer.Start()
	a.notify(ChangeSessionStart)
}

// ResumeSession restores a running session from a persisted start
// instant after a process restart. No-op when already running.
func (a *Account) ResumeSession(start time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timer.Resume(start)
}

// Session returns the current session view. Earnings are recomputed
// from the stored start instant on every call; display ticks are
// cosmetic and must come back through here.
func (a *Account) Session() SessionStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return SessionStatus{
		Running:        a.timer.Running(),
		StartedAt:      a.timer.StartedAt(),
		ElapsedSeconds: a.timer.ElapsedSeconds(),
		Earned:         a.timer.Earned(CalcRate(a.config).PerSecond),
	}
}

// FinishSession settles the running session: reads the earned amount,
// clears the timer (read-then-clear under one lock, so no suspension
// can fall between the two), adds the earnings to the lifetime total,
// classifies the session, and reports any level-up. Returns ok=false
// without side effects when no session is running.
func (a *Account) FinishSession(bonusActive bool) (SessionReceipt, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.timer.Running() {
		return SessionReceipt{}, false
	}

	rate := CalcRate(a.config)
	earned := a.timer.Earned(rate.PerSecond)
	elapsedSecs := a.timer.ElapsedSeconds()
	elapsedMins := a.timer.Elapsed().Minutes()
	a.timer.Finish()

	a.lifetime = a.lifetime.Add(earned).Clamp()

	progress := ResolveProgress(a.lifetime, a.locale)
	classification := Classify(earned, elapsedMins, a.locale)

	receipt := SessionReceipt{
		Earned:         earned,
		ElapsedSeconds: elapsedSecs,
		ElapsedMinutes: elapsedMins,
		Classification: classification,
		VariantPool:    classification.VariantPool(bonusActive),
		Progress:       progress,
	}
	if ev, ok := a.tracker.Observe(progress); ok {
		receipt.LevelUp = &ev
	}

	a.notify(ChangeSessionFinish)
	return receipt, true
}

// DiscardSession drops the running session without accruing anything.
// Always safe: idempotent, leaves the Idle state.
func (a *Account) DiscardSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	wasRunning := a.timer.Running()
	a.timer.Discard()
	if wasRunning {
		a.notify(ChangeSessionDrop)
	}
}

// =============================================================================
// LIFETIME TOTAL
// =============================================================================

// LifetimeTotal returns the accumulated total in the active locale's
// currency.
func (a *Account) LifetimeTotal() Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lifetime
}

// RestoreLifetime seeds the total from persistence without firing a
// level-up (the tracker re-primes at the restored level).
func (a *Account) RestoreLifetime(total Money) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lifetime = total.Clamp()
	a.tracker.Reset()
	a.tracker.Observe(ResolveProgress(a.lifetime, a.locale))
}

// ResetLifetime zeroes the accumulated total ("reset lab"). The
// progression tracker re-primes at level 0 so climbing back up fires
// fresh level-ups.
func (a *Account) ResetLifetime() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lifetime = ZeroMoney()
	a.tracker.Reset()
	a.tracker.Observe(ResolveProgress(a.lifetime, a.locale))
	a.notify(ChangeReset)
}

// =============================================================================
// LOCALE & SCORING
// =============================================================================

// Locale returns the active currency locale.
func (a *Account) Locale() Locale {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locale
}

// SwitchLocale changes the display locale, rescaling the stored
// lifetime total exactly once so its real-world value is preserved.
// A running session is NOT converted: its accrual basis stays whatever
// currency is active when its earnings are read. No-op when the locale
// did not actually change.
func (a *Account) SwitchLocale(newLocale Locale) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if newLocale == a.locale {
		return
	}
	a.lifetime = ConvertLifetimeTotal(a.locale, newLocale, a.lifetime)
	a.locale = newLocale

	// Level index may shift with the new table; re-prime so the shift
	// never masquerades as a level-up.
	a.tracker.Reset()
	a.tracker.Observe(ResolveProgress(a.lifetime, a.locale))
	a.notify(ChangeLocaleSwitch)
}

// Progress resolves the current progression state.
func (a *Account) Progress() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ResolveProgress(a.lifetime, a.locale)
}

// Score returns the currency-neutral ranking score. Leaderboard
// comparisons always use this, never the raw lifetime total.
func (a *Account) Score() Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return NormalizedScore(a.lifetime, a.locale)
}

// Snapshot captures the persistable state in one consistent read.
type Snapshot struct {
	UserID        string
	Nickname      string
	Config        SalaryConfig
	Locale        Locale
	LifetimeTotal Money
	Score         Money
	SessionStart  time.Time // zero when Idle
}

// Snapshot returns a consistent copy of the persistable state.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		UserID:        a.userID,
		Nickname:      a.nickname,
		Config:        a.config,
		Locale:        a.locale,
		LifetimeTotal: a.lifetime,
		Score:         NormalizedScore(a.lifetime, a.locale),
		SessionStart:  a.timer.StartedAt(),
	}
}

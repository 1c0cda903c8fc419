/*
Package alchemy provides the core progression and economy engine for the
salary alchemy game: a user configures a salary, starts a timer, and
watches simulated earnings accrue in real time while a 50-level / 10-tier
progression system reacts to lifetime accumulated earnings.

PURPOSE:
  This package contains the deterministic game logic with actual
  invariants worth testing:
  - Rate derivation from salary configuration (rate.go)
  - Wall-clock session accrual (timer.go)
  - Generated level tables per currency locale (levels.go)
  - Level/tier resolution and level-up detection (progression.go)
  - Cross-locale score normalization for fair ranking (score.go)
  - Equivalent-exchange reward classification (exchange.go)
  - Single-writer account state composing all of the above (account.go)

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A decimal amount denominated in the active display currency
  - Locale: Currency locale (TW reference currency, EN foreign)
  - SalaryConfig: User-entered salary parameters, clamped at the boundary

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all money math, never float64
     in stored state (float64 appears only at API edges)
  2. Purity: Rate, table, score, and exchange logic are pure functions
  3. Graceful degradation: bad input clamps to zero, never errors
  4. Single writer: mutation flows through one Account per user

SEE ALSO:
  - rate.go: Rate derivation
  - account.go: The stateful composition root
*/
package alchemy

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// LOCALE - Currency locale
// =============================================================================

// Locale identifies the user's display currency locale.
// LocaleTW is the reference currency; all cross-locale math is anchored
// to it.
type Locale string

const (
	LocaleTW Locale = "TW"
	LocaleEN Locale = "EN"
)

// Currency returns the ISO-ish currency code for display purposes.
func (l Locale) Currency() string {
	if l == LocaleEN {
		return "USD"
	}
	return "TWD"
}

// IsReference reports whether this locale uses the reference currency.
func (l Locale) IsReference() bool { return l != LocaleEN }

// ParseLocale normalizes an external locale string. Unknown values fall
// back to the reference locale rather than erroring.
func ParseLocale(s string) Locale {
	if Locale(s) == LocaleEN {
		return LocaleEN
	}
	return LocaleTW
}

// =============================================================================
// FIXED CONVERSION CONSTANTS
// =============================================================================

var (
	// ExchangeRate is the fixed reference-units-per-foreign-unit rate
	// used for score normalization and purchasing-power conversion
	// (1 foreign unit = 30 reference units).
	ExchangeRate = decimal.NewFromInt(30)

	// LocaleDivisor rescales the reference level table into the foreign
	// track. It is a difficulty knob, not a real exchange rate: dividing
	// by 15 instead of 30 makes the foreign track feel proportionally
	// harder per nominal unit.
	LocaleDivisor = decimal.NewFromInt(15)
)

// =============================================================================
// MONEY - Decimal amount in the active display currency
// =============================================================================

// Money is an amount of in-game currency. The denomination is contextual:
// lifetime totals and thresholds live in the active locale's currency,
// normalized scores always in the reference currency.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(v float64) Money        { return Money{Value: decimal.NewFromFloat(v)} }
func NewMoneyFromInt(v int64) Money   { return Money{Value: decimal.NewFromInt(v)} }
func MoneyFromDecimal(d decimal.Decimal) Money { return Money{Value: d} }

// MustParseMoney parses a decimal string, returning zero on bad input.
// Used when loading persisted totals; a corrupt row degrades to zero
// instead of wedging the account.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(b Money) Money              { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money              { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Mul(s decimal.Decimal) Money    { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money    { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                     { return Money{Value: m.Value.Neg()} }
func (m Money) IsZero() bool                   { return m.Value.IsZero() }
func (m Money) IsNegative() bool               { return m.Value.IsNegative() }
func (m Money) IsPositive() bool               { return m.Value.IsPositive() }
func (m Money) GreaterThan(b Money) bool       { return m.Value.GreaterThan(b.Value) }
func (m Money) GreaterOrEqual(b Money) bool    { return m.Value.GreaterThanOrEqual(b.Value) }
func (m Money) LessThan(b Money) bool          { return m.Value.LessThan(b.Value) }
func (m Money) Float64() float64               { f, _ := m.Value.Float64(); return f }
func (m Money) String() string                 { return m.Value.String() }

// Clamp returns the amount floored at zero. Negative money never enters
// the engine; it is absorbed here at the boundary.
func (m Money) Clamp() Money {
	if m.Value.IsNegative() {
		return ZeroMoney()
	}
	return m
}

// =============================================================================
// SALARY CONFIG - User-entered earning parameters
// =============================================================================

// SalaryConfig holds the user's salary parameters. All fields are
// non-negative after Clamp; a zero divisor (hours x days == 0) yields a
// zero rate downstream, never an error.
type SalaryConfig struct {
	MonthlySalary decimal.Decimal
	DailyHours    decimal.Decimal
	WorkingDays   decimal.Decimal
}

// NewSalaryConfig builds a clamped config from raw user input.
func NewSalaryConfig(monthlySalary, dailyHours, workingDays float64) SalaryConfig {
	return SalaryConfig{
		MonthlySalary: decimal.NewFromFloat(monthlySalary),
		DailyHours:    decimal.NewFromFloat(dailyHours),
		WorkingDays:   decimal.NewFromFloat(workingDays),
	}.Clamp()
}

// DefaultSalaryConfig mirrors the onboarding defaults: 8 hours a day,
// 20 working days a month, salary unset.
func DefaultSalaryConfig() SalaryConfig {
	return SalaryConfig{
		MonthlySalary: decimal.Zero,
		DailyHours:    decimal.NewFromInt(8),
		WorkingDays:   decimal.NewFromInt(20),
	}
}

// Clamp floors every field at zero. Invalid configuration is never an
// error; the zero-rate behavior absorbs it.
func (c SalaryConfig) Clamp() SalaryConfig {
	if c.MonthlySalary.IsNegative() {
		c.MonthlySalary = decimal.Zero
	}
	if c.DailyHours.IsNegative() {
		c.DailyHours = decimal.Zero
	}
	if c.WorkingDays.IsNegative() {
		c.WorkingDays = decimal.Zero
	}
	return c
}

// MonthlyHours returns dailyHours x workingDays.
func (c SalaryConfig) MonthlyHours() decimal.Decimal {
	return c.DailyHours.Mul(c.WorkingDays)
}

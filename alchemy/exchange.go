/*
exchange.go - Equivalent-exchange reward classification

PURPOSE:
  Maps a completed session's (earned amount, elapsed minutes, locale)
  to a flavor category for the session receipt. A stateless pure
  function; nothing here is persisted.

PRIORITY:
  Health-risk categories are time-based, currency-independent, and take
  absolute priority over wealth categories:
    elapsedMinutes > 45 -> critical
    elapsedMinutes > 30 -> warning
  Either short-circuits; the earned amount is never consulted.

WEALTH BUCKETS:
  Otherwise the earned amount is converted to "purchasing power" in
  reference-currency units (foreign earnings multiply by the fixed rate)
  and bucketed via ascending breakpoints. Buckets are half-open
  [prev, next) and exhaustive: zero lands in the lowest bucket, anything
  past the last breakpoint is legendary.

BONUS FLAG:
  The top category may be promoted to a bonus variant pool by a
  caller-supplied flag (the rewarded-ad grant is the caller's business;
  the classifier knows nothing about ad state). The flag only selects
  the flavor-text variant pool, never the thresholds.
*/
package alchemy

import "github.com/shopspring/decimal"

// =============================================================================
// CATEGORIES
// =============================================================================

// ExchangeCategory keys the flavor-text catalog owned by the UI layer.
type ExchangeCategory string

const (
	HealthCritical  ExchangeCategory = "health_critical"
	HealthWarning   ExchangeCategory = "health_warning"
	WealthMicro     ExchangeCategory = "wealth_micro"
	WealthTiny      ExchangeCategory = "wealth_tiny"
	WealthLow       ExchangeCategory = "wealth_low"
	WealthMidLow    ExchangeCategory = "wealth_mid_low"
	WealthMid       ExchangeCategory = "wealth_mid"
	WealthHigh      ExchangeCategory = "wealth_high"
	WealthUltra     ExchangeCategory = "wealth_ultra"
	WealthLegendary ExchangeCategory = "wealth_legendary"
)

// wealthBreakpoints are the ascending upper bounds of the wealth
// buckets, in reference-currency purchasing power.
var wealthBreakpoints = []struct {
	below    int64
	category ExchangeCategory
	icon     string
}{
	{1, WealthMicro, "icon_puff"},
	{10, WealthTiny, "icon_tissue"},
	{50, WealthLow, "icon_candy"},
	{160, WealthMidLow, "icon_drink"},
	{300, WealthMid, "icon_bento"},
	{1000, WealthHigh, "icon_ticket"},
	{3000, WealthUltra, "icon_capsule"},
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// ExchangeClassification is the structured result handed to the UI,
// which independently resolves display text and art from the keys.
type ExchangeClassification struct {
	Category     ExchangeCategory
	IconKey      string
	IsHealthRisk bool
}

// VariantPool returns the flavor-text pool key for this classification.
// Only the legendary category has a bonus pool; the flag is inert
// everywhere else.
func (c ExchangeClassification) VariantPool(bonusActive bool) string {
	if bonusActive && c.Category == WealthLegendary {
		return string(c.Category) + "_bonus"
	}
	return string(c.Category)
}

// Classify maps a completed session to its exchange category.
func Classify(earned Money, elapsedMinutes float64, locale Locale) ExchangeClassification {
	// Health risk first: time-based, currency-independent, short-circuits.
	if elapsedMinutes > 45 {
		return ExchangeClassification{Category: HealthCritical, IconKey: "icon_ambulance", IsHealthRisk: true}
	}
	if elapsedMinutes > 30 {
		return ExchangeClassification{Category: HealthWarning, IconKey: "icon_donut", IsHealthRisk: true}
	}

	// Purchasing power in reference-currency units.
	pp := earned.Clamp().Value
	if !locale.IsReference() {
		pp = pp.Mul(ExchangeRate)
	}

	for _, bp := range wealthBreakpoints {
		if pp.LessThan(decimal.NewFromInt(bp.below)) {
			return ExchangeClassification{Category: bp.category, IconKey: bp.icon}
		}
	}
	return ExchangeClassification{Category: WealthLegendary, IconKey: "icon_diamond"}
}

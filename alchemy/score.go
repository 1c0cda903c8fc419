/*
score.go - Cross-locale score normalization

PURPOSE:
  The leaderboard ranks users from different currency locales against
  each other. Raw lifetime totals are denominated in each user's display
  currency, so ranking them directly would be unfair by a factor of the
  exchange rate. Every leaderboard comparison therefore uses the
  normalized score: the lifetime total rescaled into the reference
  currency at the fixed rate.

LOCALE SWITCH:
  Switching display locale relabels the stored lifetime total into the
  new currency so its real-world value is preserved. This is a business
  rule, not a display preference, which is why ConvertLifetimeTotal is
  an explicit, separately testable operation rather than part of a
  generic setter. It applies to the stored total exactly once per actual
  locale change and never to an in-flight session's accrual basis (the
  running session reads whatever currency is active at read time; see
  Account.SwitchLocale).

ROUND TRIP:
  Reference -> foreign divides by the rate, foreign -> reference
  multiplies, so a switch there and back returns the original total
  (within decimal division precision).
*/
package alchemy

// NormalizedScore rescales a locale-scoped lifetime total into the
// reference currency for fair ranking. Reference-locale totals pass
// through untouched; foreign totals multiply by the fixed rate.
func NormalizedScore(lifetimeTotal Money, locale Locale) Money {
	if locale.IsReference() {
		return lifetimeTotal
	}
	return lifetimeTotal.Mul(ExchangeRate)
}

// ConvertLifetimeTotal rescales a stored lifetime total when the user
// switches currency locale, preserving its real-world value. Returns
// the input unchanged when the locale did not actually change.
func ConvertLifetimeTotal(oldLocale, newLocale Locale, total Money) Money {
	if oldLocale == newLocale {
		return total
	}
	if newLocale == LocaleEN {
		// reference -> foreign
		return total.Div(ExchangeRate)
	}
	// foreign -> reference
	return total.Mul(ExchangeRate)
}

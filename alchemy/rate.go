/*
rate.go - Derived earning rates from salary configuration

PURPOSE:
  Turns a SalaryConfig into per-hour and per-second earning rates.
  This is a pure function re-evaluated whenever the config changes.

ZERO-DIVISOR RULE:
  If monthly salary <= 0 or monthly hours (dailyHours x workingDays) <= 0,
  both rates are zero. Never an error, never NaN. The UI shows a zero
  counter until the user enters a usable salary.

EXAMPLE:
  salary=30000, dailyHours=8, workingDays=20
  -> monthlyHours=160 -> ratePerHour=187.5 -> ratePerSecond~=0.052083

SEE ALSO:
  - timer.go: Consumes ratePerSecond for session accrual
*/
package alchemy

import "github.com/shopspring/decimal"

var secondsPerHour = decimal.NewFromInt(3600)

// Rate holds the derived earning rates. Both values are >= 0.
type Rate struct {
	PerHour   decimal.Decimal
	PerSecond decimal.Decimal
}

// ZeroRate is the rate for unusable configuration.
func ZeroRate() Rate {
	return Rate{PerHour: decimal.Zero, PerSecond: decimal.Zero}
}

// CalcRate derives earning rates from a salary configuration.
func CalcRate(cfg SalaryConfig) Rate {
	cfg = cfg.Clamp()

	monthlyHours := cfg.MonthlyHours()
	if !cfg.MonthlySalary.IsPositive() || !monthlyHours.IsPositive() {
		return ZeroRate()
	}

	perHour := cfg.MonthlySalary.Div(monthlyHours)
	return Rate{
		PerHour:   perHour,
		PerSecond: perHour.Div(secondsPerHour),
	}
}

// IsZero reports whether the rate accrues nothing.
func (r Rate) IsZero() bool { return r.PerSecond.IsZero() }

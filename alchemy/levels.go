/*
levels.go - Generated 50-level / 10-tier progression tables

PURPOSE:
  Builds the static level threshold table once per currency locale.
  The table is generated, not hand-authored: a four-segment piecewise
  curve over the reference currency, then a monotonic repair pass.

CURVE SEGMENTS (reference currency):
  Entries  0-9:  linear 0 -> 10,000            (tiers 1-4)
  Entries 10-29: geometric 10,000 -> 1e8       (tiers 4-7, factor 10,000x)
  Entries 30-44: geometric 1e8 -> 1e11         (tiers 7-9, factor 1,000x)
  Entries 45-49: geometric 1e11 -> 6e12        (tier 10, factor 60x)

MONOTONICITY:
  Segment boundaries land on the previous segment's endpoint, so each
  boundary is nudged +1 unit when it would equal the previous entry.
  A forward pass then guarantees threshold[i] > threshold[i-1] for all i,
  bumping any violator to threshold[i-1] + 1. Entry 0 is always 0.

FOREIGN TRACK:
  The EN table divides every reference threshold by a fixed divisor (15),
  rounded to the nearest integer. This is a difficulty choice, not an
  exchange rate; score normalization (score.go) uses the real fixed rate.

DIAMOND MODE:
  The diamond-mode threshold is the lowest threshold tagged tier 5 in
  the reference table, with the same divide-by-15 transform for EN.

Tables are pure and input-free beyond locale, so they are generated once
and memoized (the source recomputed them on every render; see score.go
for the other cross-locale rule).
*/
package alchemy

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

// TableSize is the number of level entries per locale.
const TableSize = 50

// MaxLevelIndex is the last level index; progression past it reports
// the max-level sentinel instead of a next threshold.
const MaxLevelIndex = TableSize - 1

// =============================================================================
// TIER - Exhaustive 1..10 cosmetic grouping
// =============================================================================

// Tier is a coarse grouping of consecutive levels driving cosmetic
// presentation. Valid values are 1..10; the zero value is invalid and
// only reachable through misuse.
type Tier int

// IconKey returns the icon selection key for this tier. Total over the
// valid range so an out-of-range tier cannot silently pick a wrong icon.
func (t Tier) IconKey() string {
	switch t {
	case 1:
		return "tier_sprout"
	case 2:
		return "tier_copper"
	case 3:
		return "tier_bronze"
	case 4:
		return "tier_silver"
	case 5:
		return "tier_gold"
	case 6:
		return "tier_platinum"
	case 7:
		return "tier_mithril"
	case 8:
		return "tier_orichalcum"
	case 9:
		return "tier_celestial"
	case 10:
		return "tier_philosopher"
	default:
		return "tier_sprout"
	}
}

// ColorKey returns the palette key for this tier.
func (t Tier) ColorKey() string {
	switch t {
	case 1, 2, 3:
		return "palette_earth"
	case 4, 5, 6:
		return "palette_noble"
	case 7, 8, 9:
		return "palette_arcane"
	case 10:
		return "palette_transcendent"
	default:
		return "palette_earth"
	}
}

// Valid reports whether the tier is in 1..10.
func (t Tier) Valid() bool { return t >= 1 && t <= 10 }

// =============================================================================
// LEVEL ENTRY - One row of the generated table
// =============================================================================

// LevelEntry is a single level threshold. Thresholds are strictly
// increasing across the table and entry 0 has threshold 0.
type LevelEntry struct {
	Threshold Money
	Tier      Tier
}

// =============================================================================
// TABLE GENERATION
// =============================================================================

// generateReferenceTable builds the 50-entry reference-currency table.
func generateReferenceTable() []LevelEntry {
	raw := make([]int64, TableSize)

	// Segment 1: linear 0 -> 10,000 over entries 0-9.
	for i := 0; i <= 9; i++ {
		raw[i] = int64(math.Round(10_000 * float64(i) / 9))
	}
	// Segment 2: geometric 10,000 -> 100,000,000 over entries 10-29.
	for i := 10; i <= 29; i++ {
		raw[i] = int64(math.Round(10_000 * math.Pow(10_000, float64(i-10)/19)))
	}
	// Segment 3: geometric 1e8 -> 1e11 over entries 30-44.
	for i := 30; i <= 44; i++ {
		raw[i] = int64(math.Round(100_000_000 * math.Pow(1_000, float64(i-30)/14)))
	}
	// Segment 4: geometric 1e11 -> 6e12 over entries 45-49.
	for i := 45; i <= 49; i++ {
		raw[i] = int64(math.Round(100_000_000_000 * math.Pow(60, float64(i-45)/4)))
	}

	// Segment boundaries land on the previous endpoint; nudge +1 unit.
	for _, boundary := range []int{10, 30, 45} {
		if raw[boundary] == raw[boundary-1] {
			raw[boundary]++
		}
	}

	entries := make([]LevelEntry, TableSize)
	for i := range entries {
		entries[i] = LevelEntry{
			Threshold: MoneyFromDecimal(decimal.NewFromInt(raw[i])),
			Tier:      tierForIndex(i),
		}
	}
	return repairMonotonic(entries)
}

// tierForIndex maps a level index to its tier.
func tierForIndex(i int) Tier {
	switch {
	case i <= 2:
		return 1
	case i <= 5:
		return 2
	case i <= 8:
		return 3
	case i == 9:
		return 4
	case i <= 29:
		// Quintiles of the 20-entry geometric span: tiers 4-7.
		return Tier(4 + (i-10)/5)
	case i <= 44:
		return Tier(7 + (i-30)/5)
	default:
		return 10
	}
}

// repairMonotonic enforces threshold[i] > threshold[i-1] end to end.
func repairMonotonic(entries []LevelEntry) []LevelEntry {
	one := decimal.NewFromInt(1)
	for i := 1; i < len(entries); i++ {
		if !entries[i].Threshold.GreaterThan(entries[i-1].Threshold) {
			entries[i].Threshold = MoneyFromDecimal(entries[i-1].Threshold.Value.Add(one))
		}
	}
	return entries
}

// deriveForeignTable rescales the reference table by the locale divisor,
// rounding to the nearest integer, then repairs monotonicity again since
// division can collapse neighboring small thresholds.
func deriveForeignTable(reference []LevelEntry) []LevelEntry {
	entries := make([]LevelEntry, len(reference))
	for i, e := range reference {
		entries[i] = LevelEntry{
			Threshold: MoneyFromDecimal(e.Threshold.Value.Div(LocaleDivisor).Round(0)),
			Tier:      e.Tier,
		}
	}
	// Entry 0 must stay exactly 0.
	entries[0].Threshold = ZeroMoney()
	return repairMonotonic(entries)
}

// =============================================================================
// MEMOIZED ACCESS
// =============================================================================

var (
	tableOnce     sync.Once
	tableTW       []LevelEntry
	tableEN       []LevelEntry
	diamondTW     Money
	diamondEN     Money
)

func buildTables() {
	tableTW = generateReferenceTable()
	tableEN = deriveForeignTable(tableTW)

	// Diamond mode unlocks at the lowest tier-5 threshold.
	for _, e := range tableTW {
		if e.Tier == 5 {
			diamondTW = e.Threshold
			break
		}
	}
	diamondEN = MoneyFromDecimal(diamondTW.Value.Div(LocaleDivisor).Round(0))
}

// LevelTable returns the generated table for a locale. The returned
// slice is shared; callers must not mutate it.
func LevelTable(locale Locale) []LevelEntry {
	tableOnce.Do(buildTables)
	if locale == LocaleEN {
		return tableEN
	}
	return tableTW
}

// DiamondThreshold returns the locale-scoped diamond-mode threshold.
func DiamondThreshold(locale Locale) Money {
	tableOnce.Do(buildTables)
	if locale == LocaleEN {
		return diamondEN
	}
	return diamondTW
}

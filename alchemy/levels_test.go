package alchemy_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/alchemy/earnings-engine/alchemy"
)

// =============================================================================
// TABLE SHAPE TESTS
// =============================================================================

func TestLevelTable_FiftyEntriesBothLocales(t *testing.T) {
	for _, locale := range []alchemy.Locale{alchemy.LocaleTW, alchemy.LocaleEN} {
		table := alchemy.LevelTable(locale)
		if len(table) != alchemy.TableSize {
			t.Errorf("%s: expected %d entries, got %d", locale, alchemy.TableSize, len(table))
		}
	}
}

func TestLevelTable_StrictlyMonotonic(t *testing.T) {
	// GIVEN: The generated tables (segment boundaries collide by
	//        construction and must have been nudged)
	// WHEN: Walking every adjacent pair
	// THEN: threshold[i] > threshold[i-1] for all i, and entry 0 is 0

	for _, locale := range []alchemy.Locale{alchemy.LocaleTW, alchemy.LocaleEN} {
		table := alchemy.LevelTable(locale)

		if !table[0].Threshold.IsZero() {
			t.Errorf("%s: entry 0 threshold must be 0, got %v", locale, table[0].Threshold)
		}
		for i := 1; i < len(table); i++ {
			if !table[i].Threshold.GreaterThan(table[i-1].Threshold) {
				t.Errorf("%s: threshold[%d]=%v not > threshold[%d]=%v",
					locale, i, table[i].Threshold, i-1, table[i-1].Threshold)
			}
		}
	}
}

func TestLevelTable_SegmentAnchors(t *testing.T) {
	// GIVEN: The reference table
	// WHEN: Checking the curve's anchor points
	// THEN: Entry 9 is 10,000; entry 29 is 1e8; entry 44 is 1e11;
	//       entry 49 is 6e12

	table := alchemy.LevelTable(alchemy.LocaleTW)

	anchors := map[int]int64{
		9:  10_000,
		29: 100_000_000,
		44: 100_000_000_000,
		49: 6_000_000_000_000,
	}
	for idx, want := range anchors {
		if !table[idx].Threshold.Value.Equal(decimal.NewFromInt(want)) {
			t.Errorf("entry %d: expected %d, got %v", idx, want, table[idx].Threshold)
		}
	}
}

func TestLevelTable_TierAssignment(t *testing.T) {
	// GIVEN: The reference table
	// WHEN: Checking tier tags
	// THEN: Tiers are valid 1..10, non-decreasing, and all 10 appear

	table := alchemy.LevelTable(alchemy.LocaleTW)

	seen := make(map[alchemy.Tier]bool)
	prev := alchemy.Tier(1)
	for i, e := range table {
		if !e.Tier.Valid() {
			t.Fatalf("entry %d: invalid tier %d", i, e.Tier)
		}
		if e.Tier < prev {
			t.Errorf("entry %d: tier %d decreased from %d", i, e.Tier, prev)
		}
		prev = e.Tier
		seen[e.Tier] = true
	}
	if len(seen) != 10 {
		t.Errorf("expected all 10 tiers to appear, got %d", len(seen))
	}

	// Spot checks at the segment seams.
	if table[0].Tier != 1 || table[9].Tier != 4 || table[45].Tier != 10 {
		t.Errorf("unexpected seam tiers: %d/%d/%d",
			table[0].Tier, table[9].Tier, table[45].Tier)
	}
}

func TestLevelTable_ForeignDerivation(t *testing.T) {
	// GIVEN: The TW and EN tables
	// WHEN: Comparing thresholds above the rounding floor
	// THEN: EN = round(TW / 15)

	tw := alchemy.LevelTable(alchemy.LocaleTW)
	en := alchemy.LevelTable(alchemy.LocaleEN)

	for _, i := range []int{9, 20, 29, 44, 49} {
		want := tw[i].Threshold.Value.Div(decimal.NewFromInt(15)).Round(0)
		if !en[i].Threshold.Value.Equal(want) {
			t.Errorf("EN entry %d: expected %v (TW/15), got %v", i, want, en[i].Threshold)
		}
		if en[i].Tier != tw[i].Tier {
			t.Errorf("EN entry %d: tier %d != TW tier %d", i, en[i].Tier, tw[i].Tier)
		}
	}
}

func TestDiamondThreshold_IsLowestTierFiveEntry(t *testing.T) {
	// GIVEN: The reference table
	// WHEN: Reading the diamond-mode threshold
	// THEN: It equals the first entry tagged tier 5, and the EN
	//       threshold is the same divide-by-15 transform

	tw := alchemy.LevelTable(alchemy.LocaleTW)

	var lowestTier5 alchemy.Money
	for _, e := range tw {
		if e.Tier == 5 {
			lowestTier5 = e.Threshold
			break
		}
	}

	if !alchemy.DiamondThreshold(alchemy.LocaleTW).Value.Equal(lowestTier5.Value) {
		t.Errorf("TW diamond threshold %v != lowest tier-5 threshold %v",
			alchemy.DiamondThreshold(alchemy.LocaleTW), lowestTier5)
	}

	wantEN := lowestTier5.Value.Div(decimal.NewFromInt(15)).Round(0)
	if !alchemy.DiamondThreshold(alchemy.LocaleEN).Value.Equal(wantEN) {
		t.Errorf("EN diamond threshold %v != %v",
			alchemy.DiamondThreshold(alchemy.LocaleEN), wantEN)
	}
}

func TestLevelTable_Memoized(t *testing.T) {
	// Generated once; repeated calls return the same backing array.
	a := alchemy.LevelTable(alchemy.LocaleTW)
	b := alchemy.LevelTable(alchemy.LocaleTW)
	if &a[0] != &b[0] {
		t.Error("expected memoized table, got a fresh allocation")
	}
}

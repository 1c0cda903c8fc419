/*
progression.go - Level/tier resolution and level-up detection

PURPOSE:
  Resolves a lifetime total against the locale's level table and detects
  level-up transitions across observations.

RESOLUTION RULE:
  currentLevelIndex is the highest index i with total >= threshold[i].
  A total exactly equal to a threshold resolves to that index, not the
  one below. Entry 0 has threshold 0, so index 0 always qualifies; the
  defensive fallback to 0 is unreachable in practice.

LEVEL-UP SEMANTICS:
  The Tracker compares each observed index against the previously
  observed one (monotonic comparison, not equality). A single earning
  event that crosses multiple thresholds fires exactly ONE level-up,
  addressed to the new highest index. The very first observation never
  fires: there is nothing to level up from.

SEE ALSO:
  - levels.go: Table generation
  - account.go: Feeds totals through a per-account Tracker
*/
package alchemy

// =============================================================================
// PROGRESS - Resolved progression state
// =============================================================================

// Progress is the resolved progression state for one lifetime total.
// NextThreshold and AmountToNext are absent (nil semantics via AtMaxLevel)
// at the last level.
type Progress struct {
	LevelIndex    int
	Tier          Tier
	Threshold     Money // threshold of the current level
	NextThreshold Money // meaningless when AtMaxLevel
	AmountToNext  Money // meaningless when AtMaxLevel
	AtMaxLevel    bool
	DiamondMode   bool
}

// ResolveProgress resolves a lifetime total against the locale's table.
// Negative totals are clamped; resolution never fails.
func ResolveProgress(lifetimeTotal Money, locale Locale) Progress {
	total := lifetimeTotal.Clamp()
	table := LevelTable(locale)

	index := 0
	for i := range table {
		if total.GreaterOrEqual(table[i].Threshold) {
			index = i
		} else {
			break
		}
	}

	p := Progress{
		LevelIndex:  index,
		Tier:        table[index].Tier,
		Threshold:   table[index].Threshold,
		DiamondMode: total.GreaterOrEqual(DiamondThreshold(locale)),
	}

	if index == MaxLevelIndex {
		p.AtMaxLevel = true
		return p
	}

	p.NextThreshold = table[index+1].Threshold
	p.AmountToNext = p.NextThreshold.Sub(total)
	return p
}

// LevelForScore resolves a normalized score against the reference table.
// Used by leaderboard rows, where every score is already in reference
// units regardless of the viewer's locale.
func LevelForScore(normalizedScore Money) (levelIndex int, tier Tier) {
	p := ResolveProgress(normalizedScore, LocaleTW)
	return p.LevelIndex, p.Tier
}

// =============================================================================
// TRACKER - Monotonic level-up detection
// =============================================================================

// LevelUpEvent describes a detected level-up transition.
type LevelUpEvent struct {
	FromIndex int
	ToIndex   int
	ToTier    Tier
}

// Tracker remembers the previously observed level index for one user
// session and emits a single event per upward transition.
type Tracker struct {
	lastIndex int
	observed  bool
}

// Observe records a resolved level index. It returns a level-up event
// when the index increased relative to the previous observation. The
// first observation only primes the tracker.
func (t *Tracker) Observe(p Progress) (LevelUpEvent, bool) {
	if !t.observed {
		t.lastIndex = p.LevelIndex
		t.observed = true
		return LevelUpEvent{}, false
	}
	if p.LevelIndex <= t.lastIndex {
		t.lastIndex = p.LevelIndex
		return LevelUpEvent{}, false
	}

	ev := LevelUpEvent{
		FromIndex: t.lastIndex,
		ToIndex:   p.LevelIndex,
		ToTier:    p.Tier,
	}
	t.lastIndex = p.LevelIndex
	return ev, true
}

// Reset forgets the prior observation, e.g. after a lifetime reset.
// The next Observe primes without firing.
func (t *Tracker) Reset() {
	t.observed = false
	t.lastIndex = 0
}

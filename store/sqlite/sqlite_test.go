package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemy/earnings-engine/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestProfileRoundTrip(t *testing.T) {
	// GIVEN: A profile with a running session
	// WHEN: Saving and loading
	// THEN: Every field round-trips, decimals exactly

	s := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	in := store.Profile{
		UserID:        "u-1",
		Nickname:      "nick",
		Locale:        "EN",
		MonthlySalary: decimal.RequireFromString("57600.5"),
		DailyHours:    decimal.NewFromInt(8),
		WorkingDays:   decimal.NewFromInt(20),
		LifetimeTotal: decimal.RequireFromString("12345.678901"),
		SessionStart:  &start,
	}
	require.NoError(t, s.SaveProfile(ctx, in))

	out, err := s.LoadProfile(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", out.UserID)
	assert.Equal(t, "nick", out.Nickname)
	assert.Equal(t, "EN", out.Locale)
	assert.True(t, in.MonthlySalary.Equal(out.MonthlySalary))
	assert.True(t, in.LifetimeTotal.Equal(out.LifetimeTotal), "lifetime total must not drift")
	require.NotNil(t, out.SessionStart)
	assert.True(t, start.Equal(*out.SessionStart))
}

func TestProfileIdleSessionIsNull(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProfile(ctx, store.Profile{
		UserID:        "u-idle",
		Locale:        "TW",
		MonthlySalary: decimal.NewFromInt(30000),
		DailyHours:    decimal.NewFromInt(8),
		WorkingDays:   decimal.NewFromInt(20),
		LifetimeTotal: decimal.Zero,
	}))

	out, err := s.LoadProfile(ctx, "u-idle")
	require.NoError(t, err)
	assert.Nil(t, out.SessionStart, "idle profile must load with no session")
}

func TestLoadProfileNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrProfileNotFound)
}

func TestSaveProfileUpserts(t *testing.T) {
	// GIVEN: An existing profile
	// WHEN: Saving again with the same user id
	// THEN: The row is replaced, not duplicated

	s := newTestStore(t)
	ctx := context.Background()

	p := store.Profile{UserID: "u-2", Locale: "TW",
		MonthlySalary: decimal.NewFromInt(30000),
		DailyHours:    decimal.NewFromInt(8),
		WorkingDays:   decimal.NewFromInt(20),
		LifetimeTotal: decimal.NewFromInt(100)}
	require.NoError(t, s.SaveProfile(ctx, p))

	p.LifetimeTotal = decimal.NewFromInt(250)
	p.Locale = "EN"
	require.NoError(t, s.SaveProfile(ctx, p))

	out, err := s.LoadProfile(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, "EN", out.Locale)
	assert.True(t, decimal.NewFromInt(250).Equal(out.LifetimeTotal))
}

// =============================================================================
// LEADERBOARD TESTS
// =============================================================================

func seedScores(t *testing.T, s *Store, scores map[string]int64) {
	t.Helper()
	for id, score := range scores {
		require.NoError(t, s.UpsertScore(context.Background(), store.ScoreRow{
			UserID:          id,
			Nickname:        id,
			TotalEarned:     decimal.NewFromInt(score),
			NormalizedScore: decimal.NewFromInt(score),
			Locale:          "TW",
		}))
	}
}

func TestTopScoresOrdersByScoreDescending(t *testing.T) {
	// GIVEN: Scores inserted out of order, including a many-digit one
	//        that would sort wrong as TEXT
	// WHEN: Querying the top scores
	// THEN: Rows come back numerically descending

	s := newTestStore(t)
	seedScores(t, s, map[string]int64{
		"low": 9, "mid": 500, "high": 100000,
	})

	rows, err := s.TopScores(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "high", rows[0].UserID)
	assert.Equal(t, "mid", rows[1].UserID)
	assert.Equal(t, "low", rows[2].UserID)
}

func TestTopScoresPagination(t *testing.T) {
	s := newTestStore(t)
	seedScores(t, s, map[string]int64{
		"a": 10, "b": 20, "c": 30, "d": 40, "e": 50,
	})

	page, err := s.TopScores(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].UserID)
	assert.Equal(t, "b", page[1].UserID)
}

func TestUpsertScoreReplacesExistingRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedScores(t, s, map[string]int64{"u": 100})

	require.NoError(t, s.UpsertScore(ctx, store.ScoreRow{
		UserID:          "u",
		Nickname:        "renamed",
		TotalEarned:     decimal.NewFromInt(900),
		NormalizedScore: decimal.NewFromInt(900),
		Locale:          "EN",
	}))

	count, err := s.CountScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rows, err := s.TopScores(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "renamed", rows[0].Nickname)
	assert.True(t, decimal.NewFromInt(900).Equal(rows[0].NormalizedScore))
}

func TestCountScoresEmpty(t *testing.T) {
	s := newTestStore(t)

	count, err := s.CountScores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

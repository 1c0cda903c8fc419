/*
Package store defines the persistence contracts consumed by the engine.

PURPOSE:
  The core computes new values synchronously and hands them to a
  persistence collaborator; retries and failures are the collaborator's
  problem and never block local progression. This package defines those
  contracts plus the records they exchange. Implementations:

  - store/memory: In-memory, for tests and dev
  - store/sqlite: Production SQLite

RECORDS:
  Profile:  One row per user - salary config, locale, lifetime total,
            and the running session's start instant (if any), so a
            process restart can resume the session from its stored
            start instant rather than a cached elapsed value.
  ScoreRow: One leaderboard row per user, ranked by normalized score.

MONEY ENCODING:
  Decimal amounts cross this boundary as decimal.Decimal and are stored
  as TEXT by the SQLite implementation; parsing a corrupt value degrades
  to zero at the core boundary.
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrProfileNotFound is returned when the user has no stored profile.
	ErrProfileNotFound = errors.New("profile not found")
)

// =============================================================================
// RECORDS
// =============================================================================

// Profile is the persisted per-user state.
type Profile struct {
	UserID        string
	Nickname      string
	Locale        string
	MonthlySalary decimal.Decimal
	DailyHours    decimal.Decimal
	WorkingDays   decimal.Decimal
	LifetimeTotal decimal.Decimal
	SessionStart  *time.Time // nil when no session is running
	UpdatedAt     time.Time
}

// ScoreRow is one leaderboard entry. NormalizedScore is the ranking
// key; TotalEarned is kept for display in the row's own currency.
type ScoreRow struct {
	UserID          string
	Nickname        string
	TotalEarned     decimal.Decimal
	NormalizedScore decimal.Decimal
	Locale          string
	UpdatedAt       time.Time
}

// =============================================================================
// CONTRACTS
// =============================================================================

// ProfileStore persists user profiles.
type ProfileStore interface {
	// LoadProfile returns ErrProfileNotFound for unknown users.
	LoadProfile(ctx context.Context, userID string) (Profile, error)

	// SaveProfile upserts the profile.
	SaveProfile(ctx context.Context, p Profile) error
}

// LeaderboardStore persists and queries the global ranking.
type LeaderboardStore interface {
	// UpsertScore writes one user's leaderboard row.
	UpsertScore(ctx context.Context, row ScoreRow) error

	// TopScores returns rows ordered by normalized score descending,
	// paginated.
	TopScores(ctx context.Context, limit, offset int) ([]ScoreRow, error)

	// CountScores returns the total number of ranked users.
	CountScores(ctx context.Context) (int, error)
}

// Store is the full persistence surface the server wires up.
type Store interface {
	ProfileStore
	LeaderboardStore
}

/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements store.ProfileStore and store.LeaderboardStore on SQLite.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  profiles:    One row per user (salary config, locale, lifetime total,
               session start instant)
  leaderboard: One row per user, ranked by normalized_score

MONEY ENCODING:
  decimal amounts are stored as TEXT to avoid floating-point drift in
  the database. They round-trip through shopspring/decimal.

INDEXES:
  idx_leaderboard_score: normalized_score DESC - the leaderboard query
  is the only hot read path.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened with WAL so
  readers don't block and crash recovery is sane.

USAGE:
  st, err := sqlite.New("./data/alchemy.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - store/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/alchemy/earnings-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		user_id        TEXT PRIMARY KEY,
		nickname       TEXT NOT NULL DEFAULT '',
		locale         TEXT NOT NULL DEFAULT 'TW',
		monthly_salary TEXT NOT NULL DEFAULT '0',
		daily_hours    TEXT NOT NULL DEFAULT '8',
		working_days   TEXT NOT NULL DEFAULT '20',
		lifetime_total TEXT NOT NULL DEFAULT '0',
		session_start  INTEGER,            -- unix millis, NULL when idle
		updated_at     INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leaderboard (
		user_id          TEXT PRIMARY KEY,
		nickname         TEXT NOT NULL DEFAULT '',
		total_earned     TEXT NOT NULL DEFAULT '0',
		normalized_score TEXT NOT NULL DEFAULT '0',
		-- numeric shadow of normalized_score; TEXT doesn't sort numerically
		score_rank       REAL NOT NULL DEFAULT 0,
		locale           TEXT NOT NULL DEFAULT 'TW',
		updated_at       INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leaderboard_score
		ON leaderboard(score_rank DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PROFILE STORE
// =============================================================================

func (s *Store) LoadProfile(ctx context.Context, userID string) (store.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, nickname, locale, monthly_salary, daily_hours,
		       working_days, lifetime_total, session_start, updated_at
		FROM profiles WHERE user_id = ?`, userID)

	var (
		p            store.Profile
		salary       string
		hours        string
		days         string
		total        string
		sessionStart sql.NullInt64
		updatedAt    int64
	)
	err := row.Scan(&p.UserID, &p.Nickname, &p.Locale, &salary, &hours,
		&days, &total, &sessionStart, &updatedAt)
	if err == sql.ErrNoRows {
		return store.Profile{}, store.ErrProfileNotFound
	}
	if err != nil {
		return store.Profile{}, fmt.Errorf("load profile: %w", err)
	}

	p.MonthlySalary = parseDecimal(salary)
	p.DailyHours = parseDecimal(hours)
	p.WorkingDays = parseDecimal(days)
	p.LifetimeTotal = parseDecimal(total)
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	if sessionStart.Valid {
		t := time.UnixMilli(sessionStart.Int64).UTC()
		p.SessionStart = &t
	}
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p store.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessionStart sql.NullInt64
	if p.SessionStart != nil {
		sessionStart = sql.NullInt64{Int64: p.SessionStart.UnixMilli(), Valid: true}
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, nickname, locale, monthly_salary,
			daily_hours, working_days, lifetime_total, session_start, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			nickname       = excluded.nickname,
			locale         = excluded.locale,
			monthly_salary = excluded.monthly_salary,
			daily_hours    = excluded.daily_hours,
			working_days   = excluded.working_days,
			lifetime_total = excluded.lifetime_total,
			session_start  = excluded.session_start,
			updated_at     = excluded.updated_at`,
		p.UserID, p.Nickname, p.Locale, p.MonthlySalary.String(),
		p.DailyHours.String(), p.WorkingDays.String(),
		p.LifetimeTotal.String(), sessionStart, updatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// =============================================================================
// LEADERBOARD STORE
// =============================================================================

func (s *Store) UpsertScore(ctx context.Context, row store.ScoreRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updatedAt := row.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	rank, _ := row.NormalizedScore.Float64()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (user_id, nickname, total_earned,
			normalized_score, score_rank, locale, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			nickname         = excluded.nickname,
			total_earned     = excluded.total_earned,
			normalized_score = excluded.normalized_score,
			score_rank       = excluded.score_rank,
			locale           = excluded.locale,
			updated_at       = excluded.updated_at`,
		row.UserID, row.Nickname, row.TotalEarned.String(),
		row.NormalizedScore.String(), rank, row.Locale, updatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

func (s *Store) TopScores(ctx context.Context, limit, offset int) ([]store.ScoreRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, nickname, total_earned, normalized_score, locale, updated_at
		FROM leaderboard
		ORDER BY score_rank DESC, user_id ASC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var result []store.ScoreRow
	for rows.Next() {
		var (
			r         store.ScoreRow
			earned    string
			score     string
			updatedAt int64
		)
		if err := rows.Scan(&r.UserID, &r.Nickname, &earned, &score, &r.Locale, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		r.TotalEarned = parseDecimal(earned)
		r.NormalizedScore = parseDecimal(score)
		r.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *Store) CountScores(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leaderboard`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return count, nil
}

// parseDecimal degrades corrupt stored values to zero rather than
// failing the whole read.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

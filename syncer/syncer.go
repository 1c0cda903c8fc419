/*
Package syncer pushes account scores to the leaderboard collaborator.

PURPOSE:
  Score sync is fire-and-forget from the core's perspective: the engine
  computes the new score synchronously and hands it here; whether the
  write lands is this package's problem and never blocks progression.

DEFERRAL:
  A sync without a user id is not an error - identity may not have been
  issued yet. The entry is parked and retried once an id exists.

RETRY:
  Failed and deferred entries are kept (latest per user wins, since a
  newer score strictly supersedes an older one) and flushed by a cron
  job (robfig/cron) on the configured schedule. Local state stays
  authoritative regardless of sync outcome.

SEE ALSO:
  - store/store.go: LeaderboardStore contract
  - api/handlers.go: Calls Sync after each lifetime-total mutation
*/
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/alchemy/earnings-engine/metrics"
	"github.com/alchemy/earnings-engine/store"
)

// Entry is one score push.
type Entry struct {
	UserID          string
	Nickname        string
	TotalEarned     decimal.Decimal // display currency
	NormalizedScore decimal.Decimal // reference currency
	Locale          string
	Timestamp       time.Time
}

// Syncer owns the pending queue and the retry schedule.
type Syncer struct {
	mu      sync.Mutex
	board   store.LeaderboardStore
	log     *logrus.Entry
	pending map[string]store.ScoreRow // keyed by user id, latest wins
	cron    *cron.Cron
}

// New creates a Syncer. Call StartRetry to arm the flush schedule.
func New(board store.LeaderboardStore, log *logrus.Logger) *Syncer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Syncer{
		board:   board,
		log:     log.WithField("component", "syncer"),
		pending: make(map[string]store.ScoreRow),
	}
}

// Sync attempts to push one score. A missing user id defers the push
// (not an error); a store failure parks the row for the retry job.
// Always returns quickly and never propagates the failure upward.
func (s *Syncer) Sync(ctx context.Context, e Entry) {
	row := store.ScoreRow{
		UserID:          e.UserID,
		Nickname:        e.Nickname,
		TotalEarned:     e.TotalEarned,
		NormalizedScore: e.NormalizedScore,
		Locale:          e.Locale,
		UpdatedAt:       e.Timestamp,
	}

	if e.UserID == "" {
		metrics.ScoreSyncs.WithLabelValues("deferred").Inc()
		s.log.Debug("score sync deferred: no identity yet")
		return
	}

	if err := s.board.UpsertScore(ctx, row); err != nil {
		metrics.ScoreSyncs.WithLabelValues("failed").Inc()
		s.log.WithError(err).WithField("user_id", e.UserID).
			Warn("score sync failed; parked for retry")
		s.park(row)
		return
	}
	metrics.ScoreSyncs.WithLabelValues("ok").Inc()
}

func (s *Syncer) park(row store.ScoreRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[row.UserID] = row
}

// Flush retries every parked row. Rows that fail again stay parked.
func (s *Syncer) Flush(ctx context.Context) {
	s.mu.Lock()
	rows := make([]store.ScoreRow, 0, len(s.pending))
	for _, r := range s.pending {
		rows = append(rows, r)
	}
	s.mu.Unlock()

	for _, row := range rows {
		if err := s.board.UpsertScore(ctx, row); err != nil {
			metrics.ScoreSyncs.WithLabelValues("failed").Inc()
			s.log.WithError(err).WithField("user_id", row.UserID).
				Warn("score sync retry failed")
			continue
		}
		metrics.ScoreSyncs.WithLabelValues("ok").Inc()
		s.mu.Lock()
		// Only clear if no newer row was parked meanwhile.
		if cur, ok := s.pending[row.UserID]; ok && cur.UpdatedAt.Equal(row.UpdatedAt) {
			delete(s.pending, row.UserID)
		}
		s.mu.Unlock()
	}
}

// PendingCount reports parked rows (for tests and health reporting).
func (s *Syncer) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// StartRetry arms the flush schedule (cron spec, e.g. "@every 1m").
func (s *Syncer) StartRetry(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		s.Flush(context.Background())
	})
	if err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the retry schedule.
func (s *Syncer) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

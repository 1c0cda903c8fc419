// Package memory provides an in-memory Store implementation (for
// testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/alchemy/earnings-engine/store"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	profiles map[string]store.Profile
	scores   map[string]store.ScoreRow

	// FailSyncs makes UpsertScore fail, simulating an unreachable
	// leaderboard backend in tests.
	FailSyncs bool
}

func New() *Memory {
	return &Memory{
		profiles: make(map[string]store.Profile),
		scores:   make(map[string]store.ScoreRow),
	}
}

var _ store.Store = (*Memory)(nil)

func (m *Memory) LoadProfile(_ context.Context, userID string) (store.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return store.Profile{}, store.ErrProfileNotFound
	}
	return p, nil
}

func (m *Memory) SaveProfile(_ context.Context, p store.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
	return nil
}

func (m *Memory) UpsertScore(_ context.Context, row store.ScoreRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSyncs {
		return errSyncUnavailable
	}
	m.scores[row.UserID] = row
	return nil
}

func (m *Memory) TopScores(_ context.Context, limit, offset int) ([]store.ScoreRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]store.ScoreRow, 0, len(m.scores))
	for _, r := range m.scores {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].NormalizedScore.GreaterThan(rows[j].NormalizedScore)
	})

	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *Memory) CountScores(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scores), nil
}

type syncError string

func (e syncError) Error() string { return string(e) }

const errSyncUnavailable = syncError("leaderboard backend unavailable")

/*
handlers.go - HTTP API handlers for the progression engine

PURPOSE:
  Exposes the progression & economy engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Users:
    POST   /api/users                       Issue anonymous identity
    GET    /api/users/{id}                  Profile summary
    GET    /api/users/{id}/config           Salary configuration
    PUT    /api/users/{id}/config           Update salary configuration
    GET    /api/users/{id}/rate             Derived earning rates

  Sessions:
    POST   /api/users/{id}/session/start    Start earning session
    GET    /api/users/{id}/session          Live elapsed/earned view
    POST   /api/users/{id}/session/finish   Settle session (receipt)
    POST   /api/users/{id}/session/discard  Drop session without accrual

  Progression:
    GET    /api/users/{id}/progression      Level/tier/diamond state
    POST   /api/users/{id}/locale           Switch currency locale
    POST   /api/users/{id}/reset            Reset lifetime total

  Leaderboard:
    GET    /api/leaderboard                 Ranked page (normalized score desc)

ARCHITECTURE:
  Handler keeps one alchemy.Account per user in memory (single-writer
  state handle), hydrated lazily from the profile store. Every mutation
  persists the snapshot and fires a fire-and-forget score sync; a sync
  failure is logged and never fails the request, since local state stays
  authoritative.

SESSION RESUME CEILING:
  A persisted session older than the configured ceiling is discarded on
  hydration instead of resumed. This is surrounding-application policy;
  the engine itself has no timeout.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: malformed JSON body
  - 404: unknown user
  - 409: no running session to settle
  - 500: store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alchemy/earnings-engine/alchemy"
	"github.com/alchemy/earnings-engine/metrics"
	"github.com/alchemy/earnings-engine/store"
	"github.com/alchemy/earnings-engine/syncer"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         store.Store
	Syncer        *syncer.Syncer
	Log           *logrus.Logger
	Clock         alchemy.Clock
	ResumeCeiling time.Duration // 0 disables the ceiling

	mu       sync.Mutex
	accounts map[string]*alchemy.Account
}

// NewHandler creates a new handler with the given store and syncer.
func NewHandler(st store.Store, sy *syncer.Syncer, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Store:         st,
		Syncer:        sy,
		Log:           log,
		Clock:         alchemy.SystemClock(),
		ResumeCeiling: 24 * time.Hour,
		accounts:      make(map[string]*alchemy.Account),
	}
}

// account returns the in-memory state handle for a user, hydrating it
// from the profile store on first access.
func (h *Handler) account(ctx context.Context, userID string) (*alchemy.Account, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if a, ok := h.accounts[userID]; ok {
		return a, nil
	}

	p, err := h.Store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	locale := alchemy.ParseLocale(p.Locale)
	a := alchemy.NewAccount(p.UserID, locale, h.Clock)
	a.SetIdentity(p.UserID, p.Nickname)
	a.SetConfig(alchemy.SalaryConfig{
		MonthlySalary: p.MonthlySalary,
		DailyHours:    p.DailyHours,
		WorkingDays:   p.WorkingDays,
	})
	a.RestoreLifetime(alchemy.MoneyFromDecimal(p.LifetimeTotal))

	if p.SessionStart != nil {
		age := h.Clock.Now().Sub(*p.SessionStart)
		if h.ResumeCeiling > 0 && age > h.ResumeCeiling {
			h.Log.WithFields(logrus.Fields{
				"user_id": userID,
				"age":     age.String(),
			}).Info("discarding stale persisted session on resume")
		} else {
			a.ResumeSession(*p.SessionStart)
		}
	}

	h.accounts[userID] = a
	return a, nil
}

// persist saves the account snapshot and fires a score sync. Store
// failures are logged, not returned: local state is authoritative and
// a retry happens on the next mutation (and via the syncer's schedule).
func (h *Handler) persist(ctx context.Context, a *alchemy.Account) {
	snap := a.Snapshot()

	p := store.Profile{
		UserID:        snap.UserID,
		Nickname:      snap.Nickname,
		Locale:        string(snap.Locale),
		MonthlySalary: snap.Config.MonthlySalary,
		DailyHours:    snap.Config.DailyHours,
		WorkingDays:   snap.Config.WorkingDays,
		LifetimeTotal: snap.LifetimeTotal.Value,
		UpdatedAt:     h.Clock.Now().UTC(),
	}
	if !snap.SessionStart.IsZero() {
		start := snap.SessionStart
		p.SessionStart = &start
	}

	if err := h.Store.SaveProfile(ctx, p); err != nil {
		h.Log.WithError(err).WithField("user_id", snap.UserID).
			Warn("profile save failed; local state remains authoritative")
	}

	if h.Syncer != nil {
		h.Syncer.Sync(ctx, syncer.Entry{
			UserID:          snap.UserID,
			Nickname:        snap.Nickname,
			TotalEarned:     snap.LifetimeTotal.Value,
			NormalizedScore: snap.Score.Value,
			Locale:          string(snap.Locale),
			Timestamp:       h.Clock.Now().UTC(),
		})
	}
}

func (h *Handler) userDTO(a *alchemy.Account) UserDTO {
	snap := a.Snapshot()
	return UserDTO{
		ID:       snap.UserID,
		Nickname: snap.Nickname,
		Locale:   string(snap.Locale),
		Currency: snap.Locale.Currency(),
		Total:    snap.LifetimeTotal.Float64(),
		Score:    snap.Score.Float64(),
	}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// CreateUser issues an anonymous identity and an empty profile.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = "Anonymous Alchemist"
	}
	userID := uuid.NewString()
	locale := alchemy.ParseLocale(req.Locale)

	a := alchemy.NewAccount(userID, locale, h.Clock)
	a.SetIdentity(userID, nickname)

	h.mu.Lock()
	h.accounts[userID] = a
	h.mu.Unlock()

	h.persist(r.Context(), a)
	writeJSON(w, http.StatusCreated, h.userDTO(a))
}

// GetUser returns a profile summary.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.userDTO(a))
}

// GetConfig returns the salary configuration.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}
	cfg := a.Config()
	salary, _ := cfg.MonthlySalary.Float64()
	hours, _ := cfg.DailyHours.Float64()
	days, _ := cfg.WorkingDays.Float64()
	writeJSON(w, http.StatusOK, SalaryConfigDTO{
		MonthlySalary: salary,
		DailyHours:    hours,
		WorkingDays:   days,
	})
}

// UpdateConfig replaces the salary configuration. Negative input is
// clamped, never rejected.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	var req SalaryConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a.SetConfig(alchemy.NewSalaryConfig(req.MonthlySalary, req.DailyHours, req.WorkingDays))
	h.persist(r.Context(), a)

	rate := a.Rate()
	perHour, _ := rate.PerHour.Float64()
	perSecond, _ := rate.PerSecond.Float64()
	writeJSON(w, http.StatusOK, RateDTO{PerHour: perHour, PerSecond: perSecond})
}

// GetRate returns the derived earning rates.
func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}
	rate := a.Rate()
	perHour, _ := rate.PerHour.Float64()
	perSecond, _ := rate.PerSecond.Float64()
	writeJSON(w, http.StatusOK, RateDTO{PerHour: perHour, PerSecond: perSecond})
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// StartSession begins an earning session. Starting while one is already
// running is a no-op and still returns the live view.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	wasRunning := a.Session().Running
	a.StartSession()
	if !wasRunning {
		metrics.SessionsStarted.Inc()
		h.persist(r.Context(), a)
	}
	writeJSON(w, http.StatusOK, toSessionDTO(a.Session()))
}

// GetSession returns the live session view, recomputed from the stored
// start instant (display ticks are cosmetic; this is the truth).
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(a.Session()))
}

// FinishSession settles the running session into the lifetime total and
// returns the equivalent-exchange receipt.
func (h *Handler) FinishSession(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	var req FinishSessionRequest
	if r.Body != nil {
		// Empty body is fine; bonus defaults to off.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	receipt, settled := a.FinishSession(req.BonusActive)
	if !settled {
		writeError(w, http.StatusConflict, "No running session to finish", nil)
		return
	}
	metrics.SessionsFinished.Inc()
	if receipt.LevelUp != nil {
		metrics.LevelUps.Inc()
	}
	h.persist(r.Context(), a)

	dto := ReceiptDTO{
		Earned:         receipt.Earned.Float64(),
		Currency:       a.Locale().Currency(),
		ElapsedSeconds: receipt.ElapsedSeconds,
		CategoryKey:    string(receipt.Classification.Category),
		IconKey:        receipt.Classification.IconKey,
		IsHealthRisk:   receipt.Classification.IsHealthRisk,
		VariantPool:    receipt.VariantPool,
		Progression:    toProgressionDTO(receipt.Progress),
	}
	if receipt.LevelUp != nil {
		dto.LevelUp = &LevelUpDTO{
			FromIndex: receipt.LevelUp.FromIndex,
			ToIndex:   receipt.LevelUp.ToIndex,
			Tier:      int(receipt.LevelUp.ToTier),
			IconKey:   receipt.LevelUp.ToTier.IconKey(),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// DiscardSession drops the running session. Always succeeds, even when
// no session is running (discard is idempotent).
func (h *Handler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	wasRunning := a.Session().Running
	a.DiscardSession()
	if wasRunning {
		metrics.SessionsDiscarded.Inc()
		h.persist(r.Context(), a)
	}
	writeJSON(w, http.StatusOK, toSessionDTO(a.Session()))
}

func toSessionDTO(s alchemy.SessionStatus) SessionDTO {
	return SessionDTO{
		Running:        s.Running,
		StartedAt:      formatTime(s.StartedAt),
		ElapsedSeconds: s.ElapsedSeconds,
		Earned:         s.Earned.Float64(),
	}
}

// =============================================================================
// PROGRESSION HANDLERS
// =============================================================================

// GetProgression returns the resolved level/tier state.
func (h *Handler) GetProgression(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProgressionDTO(a.Progress()))
}

// SwitchLocale changes the display locale, rescaling the stored
// lifetime total. A repeated switch to the current locale is a no-op.
func (h *Handler) SwitchLocale(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	var req SwitchLocaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a.SwitchLocale(alchemy.ParseLocale(req.Locale))
	h.persist(r.Context(), a)
	writeJSON(w, http.StatusOK, h.userDTO(a))
}

// ResetLifetime zeroes the accumulated total.
func (h *Handler) ResetLifetime(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAccount(w, r)
	if !ok {
		return
	}
	a.ResetLifetime()
	h.persist(r.Context(), a)
	writeJSON(w, http.StatusOK, h.userDTO(a))
}

// =============================================================================
// LEADERBOARD HANDLERS
// =============================================================================

// GetLeaderboard returns a ranked page ordered by normalized score
// descending. Rows are ranked on the normalized score only; raw totals
// are display data.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit > 100 {
		limit = 100
	}

	ctx := r.Context()
	rows, err := h.Store.TopScores(ctx, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query leaderboard", err)
		return
	}
	count, err := h.Store.CountScores(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count leaderboard", err)
		return
	}
	metrics.LeaderboardQueries.Inc()

	entries := make([]LeaderboardEntryDTO, len(rows))
	for i, row := range rows {
		score := alchemy.MoneyFromDecimal(row.NormalizedScore)
		levelIndex, tier := alchemy.LevelForScore(score)

		earned, _ := row.TotalEarned.Float64()
		entries[i] = LeaderboardEntryDTO{
			Rank:            offset + i + 1,
			UserID:          row.UserID,
			Nickname:        row.Nickname,
			TotalEarned:     earned,
			NormalizedScore: score.Float64(),
			Locale:          row.Locale,
			LevelIndex:      levelIndex,
			Tier:            int(tier),
			UpdatedAt:       formatTime(row.UpdatedAt),
		}
	}

	writeJSON(w, http.StatusOK, LeaderboardDTO{
		Entries:    entries,
		TotalCount: count,
		Limit:      limit,
		Offset:     offset,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) requireAccount(w http.ResponseWriter, r *http.Request) (*alchemy.Account, bool) {
	userID := chi.URLParam(r, "id")
	a, err := h.account(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "User not found", nil)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to load user", err)
		}
		return nil, false
	}
	return a, true
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

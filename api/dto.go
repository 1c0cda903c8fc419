/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.
  Decimal amounts leave the engine as float64 here and only here; all
  internal math stays decimal.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  There is deliberately almost none: negative or garbage numeric input
  clamps to zero inside the engine instead of erroring (the zero-rate
  behavior absorbs it), so the handlers accept what they are given.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/alchemy/earnings-engine/alchemy"
)

// =============================================================================
// USERS & CONFIG
// =============================================================================

// UserDTO represents a user profile in API responses.
type UserDTO struct {
	ID       string  `json:"id"`
	Nickname string  `json:"nickname"`
	Locale   string  `json:"locale"`
	Currency string  `json:"currency"`
	Total    float64 `json:"lifetime_total"`
	Score    float64 `json:"normalized_score"`
}

// CreateUserRequest issues an anonymous identity.
type CreateUserRequest struct {
	Nickname string `json:"nickname"`
	Locale   string `json:"locale"`
}

// SalaryConfigDTO mirrors the user's salary parameters.
type SalaryConfigDTO struct {
	MonthlySalary float64 `json:"monthly_salary"`
	DailyHours    float64 `json:"daily_hours"`
	WorkingDays   float64 `json:"working_days"`
}

// RateDTO is the derived earning rate.
type RateDTO struct {
	PerHour   float64 `json:"rate_per_hour"`
	PerSecond float64 `json:"rate_per_second"`
}

// =============================================================================
// SESSIONS
// =============================================================================

// SessionDTO is the live view of a session.
type SessionDTO struct {
	Running        bool    `json:"running"`
	StartedAt      string  `json:"started_at,omitempty"`
	ElapsedSeconds int64   `json:"elapsed_seconds"`
	Earned         float64 `json:"earned"`
}

// FinishSessionRequest settles the running session.
type FinishSessionRequest struct {
	// BonusActive selects the bonus flavor-text pool for the top
	// category (rewarded-ad grant decided by the caller).
	BonusActive bool `json:"bonus_active"`
}

// ReceiptDTO is the equivalent-exchange settlement of a session.
type ReceiptDTO struct {
	Earned         float64        `json:"earned"`
	Currency       string         `json:"currency"`
	ElapsedSeconds int64          `json:"elapsed_seconds"`
	CategoryKey    string         `json:"category_key"`
	IconKey        string         `json:"icon_key"`
	IsHealthRisk   bool           `json:"is_health_risk"`
	VariantPool    string         `json:"variant_pool"`
	Progression    ProgressionDTO `json:"progression"`
	LevelUp        *LevelUpDTO    `json:"level_up,omitempty"`
}

// LevelUpDTO reports a level-up fired by this settlement.
type LevelUpDTO struct {
	FromIndex int    `json:"from_index"`
	ToIndex   int    `json:"to_index"`
	Tier      int    `json:"tier"`
	IconKey   string `json:"icon_key"`
}

// =============================================================================
// PROGRESSION & LEADERBOARD
// =============================================================================

// ProgressionDTO is the resolved progression state.
type ProgressionDTO struct {
	LevelIndex    int      `json:"level_index"`
	Tier          int      `json:"tier"`
	TierIconKey   string   `json:"tier_icon_key"`
	TierColorKey  string   `json:"tier_color_key"`
	AtMaxLevel    bool     `json:"at_max_level"`
	NextThreshold *float64 `json:"next_threshold,omitempty"`
	AmountToNext  *float64 `json:"amount_to_next,omitempty"`
	DiamondMode   bool     `json:"diamond_mode"`
}

// SwitchLocaleRequest changes the display currency locale.
type SwitchLocaleRequest struct {
	Locale string `json:"locale"`
}

// LeaderboardEntryDTO is one ranked row. Tier and level index are
// resolved from the normalized score against the reference table.
type LeaderboardEntryDTO struct {
	Rank            int     `json:"rank"`
	UserID          string  `json:"user_id"`
	Nickname        string  `json:"nickname"`
	TotalEarned     float64 `json:"total_earned"`
	NormalizedScore float64 `json:"normalized_score"`
	Locale          string  `json:"locale"`
	LevelIndex      int     `json:"level_index"`
	Tier            int     `json:"tier"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// LeaderboardDTO is a ranked page.
type LeaderboardDTO struct {
	Entries    []LeaderboardEntryDTO `json:"entries"`
	TotalCount int                   `json:"total_count"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toProgressionDTO(p alchemy.Progress) ProgressionDTO {
	dto := ProgressionDTO{
		LevelIndex:   p.LevelIndex,
		Tier:         int(p.Tier),
		TierIconKey:  p.Tier.IconKey(),
		TierColorKey: p.Tier.ColorKey(),
		AtMaxLevel:   p.AtMaxLevel,
		DiamondMode:  p.DiamondMode,
	}
	if !p.AtMaxLevel {
		next := p.NextThreshold.Float64()
		toNext := p.AmountToNext.Float64()
		dto.NextThreshold = &next
		dto.AmountToNext = &toNext
	}
	return dto
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailySnapshot is the per-day aggregate row. Dates are stored as
// "YYYY-MM-DD" strings in the reference timezone, one row per date.
type DailySnapshot struct {
	bun.BaseModel `bun:"table:daily_snapshots"`

	Date        string    `bun:"date,pk" json:"date"`
	TotalHours  float64   `bun:"total_hours,notnull" json:"total_hours"`
	GamesPlayed int       `bun:"games_played,notnull" json:"games_played"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// DailyGameSnapshot captures one game's cumulative hours on one date.
// Title and cover are denormalized so history survives game edits and deletes.
type DailyGameSnapshot struct {
	bun.BaseModel `bun:"table:daily_game_snapshots"`

	Date        string  `bun:"date,pk" json:"date"`
	GameID      int64   `bun:"game_id,pk" json:"game_id"`
	GameTitle   string  `bun:"game_title,notnull" json:"game_title"`
	HoursPlayed float64 `bun:"hours_played,notnull" json:"hours_played"`
	CoverURL    string  `bun:"cover_url" json:"cover_url"`
}

// TrackerRunLog is an append-only record of recorder invocations.
type TrackerRunLog struct {
	bun.BaseModel `bun:"table:tracker_run_log"`

	ID         string    `bun:"id,pk" json:"id"`
	RanAt      time.Time `bun:"ran_at,notnull" json:"ran_at"`
	Trigger    string    `bun:"trigger,notnull" json:"trigger"`
	TargetDate string    `bun:"target_date,notnull" json:"target_date"`
	Success    bool      `bun:"success,notnull" json:"success"`
	TotalHours float64   `bun:"total_hours" json:"total_hours"`
	GamesCount int       `bun:"games_count" json:"games_count"`
	Error      string    `bun:"error" json:"error,omitempty"`
}

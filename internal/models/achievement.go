package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Achievement rows with a non-empty APIName are owned by the Steam sync and
// get replaced wholesale when the snapshot recorder refreshes a game. Rows
// with an empty APIName were entered by hand and are never touched by it.
type Achievement struct {
	bun.BaseModel `bun:"table:achievements"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	GameID      int64  `bun:"game_id,notnull" json:"game_id"`
	Title       string `bun:"title,notnull" json:"title"`
	Description string `bun:"description" json:"description"`
	Date        string `bun:"date" json:"date"`
	Unlocked    bool   `bun:"unlocked" json:"unlocked"`
	IconURL     string `bun:"icon_url" json:"icon_url"`
	APIName     string `bun:"api_name" json:"api_name,omitempty"`
}

type CompletionistAchievement struct {
	bun.BaseModel `bun:"table:completionist_achievements,alias:ca"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	GameID         int64     `bun:"game_id,notnull" json:"game_id"`
	Title          string    `bun:"title,notnull" json:"title"`
	Description    string    `bun:"description" json:"description"`
	Difficulty     int       `bun:"difficulty" json:"difficulty"`
	TimeToComplete string    `bun:"time_to_complete" json:"time_to_complete"`
	CompletionDate string    `bun:"completion_date" json:"completion_date"`
	Notes          string    `bun:"notes" json:"notes"`
	Completed      bool      `bun:"completed" json:"completed"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	GameTitle string `bun:"game_title,scanonly" json:"game_title,omitempty"`
}

type Tag struct {
	bun.BaseModel `bun:"table:tags"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	GameID int64  `bun:"game_id,notnull" json:"game_id"`
	Tag    string `bun:"tag,notnull" json:"tag"`
}

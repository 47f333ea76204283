package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Game struct {
	bun.BaseModel `bun:"table:games"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Title          string    `bun:"title,notnull" json:"title"`
	Platform       string    `bun:"platform" json:"platform"`
	Status         string    `bun:"status" json:"status"`
	Notes          string    `bun:"notes" json:"notes"`
	Rating         int       `bun:"rating" json:"rating"`
	HoursPlayed    *float64  `bun:"hours_played" json:"hours_played"`
	SteamAppID     *int64    `bun:"steam_app_id" json:"steam_app_id"`
	CoverURL       string    `bun:"cover_url" json:"cover_url"`
	CompletionDate string    `bun:"completion_date" json:"completion_date"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Tags []string `bun:"-" json:"tags"`
}

type GameRequest struct {
	Title          string   `json:"title"`
	Platform       string   `json:"platform"`
	Status         string   `json:"status"`
	Notes          string   `json:"notes"`
	Rating         int      `json:"rating"`
	HoursPlayed    *float64 `json:"hours_played"`
	SteamAppID     *int64   `json:"steam_app_id"`
	CoverURL       string   `json:"cover_url"`
	CompletionDate string   `json:"completion_date"`
	Tags           []string `json:"tags"`
}

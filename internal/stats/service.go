package stats

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

type AchievementProgress struct {
	GameID   int64  `bun:"id" json:"id"`
	Title    string `bun:"title" json:"title"`
	Unlocked int    `bun:"unlocked_achievements" json:"unlocked_achievements"`
	Total    int    `bun:"total_achievements" json:"total_achievements"`
}

type RecentCompletion struct {
	GameID         int64  `bun:"id" json:"id"`
	Title          string `bun:"title" json:"title"`
	CoverURL       string `bun:"cover_url" json:"cover_url"`
	CompletionDate string `bun:"completion_date" json:"completion_date"`
}

type LibraryStats struct {
	TotalGames           int                   `json:"total_games"`
	CompletedGames       int                   `json:"completed_games"`
	TotalHours           float64               `json:"total_hours"`
	AchievementsUnlocked int                   `json:"achievements_unlocked"`
	AchievementsTotal    int                   `json:"achievements_total"`
	AchievementProgress  []AchievementProgress `json:"achievement_progress"`
	StatusBreakdown      map[string]int        `json:"status_breakdown"`
	PlatformBreakdown    map[string]int        `json:"platform_breakdown"`
	RecentCompletions    []RecentCompletion    `json:"recent_completions"`
}

// GetLibraryStats aggregates the whole library for the dashboard view.
func (s *Service) GetLibraryStats(ctx context.Context) (*LibraryStats, error) {
	stats := &LibraryStats{
		AchievementProgress: []AchievementProgress{},
		StatusBreakdown:     map[string]int{},
		PlatformBreakdown:   map[string]int{},
		RecentCompletions:   []RecentCompletion{},
	}

	if err := s.db.NewRaw(`SELECT COUNT(*) FROM games`).Scan(ctx, &stats.TotalGames); err != nil {
		return nil, fmt.Errorf("failed to count games: %w", err)
	}
	if err := s.db.NewRaw(`SELECT COUNT(*) FROM games WHERE status = 'Completed'`).
		Scan(ctx, &stats.CompletedGames); err != nil {
		return nil, fmt.Errorf("failed to count completed games: %w", err)
	}
	if err := s.db.NewRaw(`SELECT COALESCE(SUM(hours_played), 0) FROM games`).
		Scan(ctx, &stats.TotalHours); err != nil {
		return nil, fmt.Errorf("failed to sum hours: %w", err)
	}
	if err := s.db.NewRaw(`SELECT COUNT(*) FROM achievements WHERE unlocked`).
		Scan(ctx, &stats.AchievementsUnlocked); err != nil {
		return nil, fmt.Errorf("failed to count unlocked achievements: %w", err)
	}
	if err := s.db.NewRaw(`SELECT COUNT(*) FROM achievements`).
		Scan(ctx, &stats.AchievementsTotal); err != nil {
		return nil, fmt.Errorf("failed to count achievements: %w", err)
	}

	err := s.db.NewRaw(`
		SELECT
			g.id,
			g.title,
			COUNT(CASE WHEN a.unlocked THEN 1 END) AS unlocked_achievements,
			COUNT(a.id) AS total_achievements
		FROM games g
		LEFT JOIN achievements a ON g.id = a.game_id
		GROUP BY g.id, g.title, g.created_at
		HAVING COUNT(a.id) > 0
		ORDER BY g.created_at DESC
	`).Scan(ctx, &stats.AchievementProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement progress: %w", err)
	}

	type breakdownRow struct {
		Key   string `bun:"key"`
		Count int    `bun:"count"`
	}

	var statusRows []breakdownRow
	err = s.db.NewRaw(`
		SELECT status AS key, COUNT(*) AS count FROM games
		WHERE status IS NOT NULL AND status != ''
		GROUP BY status
	`).Scan(ctx, &statusRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load status breakdown: %w", err)
	}
	for _, row := range statusRows {
		stats.StatusBreakdown[row.Key] = row.Count
	}

	var platformRows []breakdownRow
	err = s.db.NewRaw(`
		SELECT platform AS key, COUNT(*) AS count FROM games
		WHERE platform IS NOT NULL AND platform != ''
		GROUP BY platform
	`).Scan(ctx, &platformRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform breakdown: %w", err)
	}
	for _, row := range platformRows {
		stats.PlatformBreakdown[row.Key] = row.Count
	}

	err = s.db.NewRaw(`
		SELECT id, title, cover_url, completion_date FROM games
		WHERE status = 'Completed' AND completion_date IS NOT NULL AND completion_date != ''
		ORDER BY completion_date DESC
		LIMIT 5
	`).Scan(ctx, &stats.RecentCompletions)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent completions: %w", err)
	}

	return stats, nil
}

package db

import (
	"context"

	"github.com/uptrace/bun"

	"gametracker/internal/models"
)

func (d *DB) CreateAchievement(ctx context.Context, ach *models.Achievement) error {
	_, err := d.Bun.NewInsert().Model(ach).Exec(ctx)
	return err
}

func (d *DB) AchievementsByGame(ctx context.Context, gameID int64) ([]models.Achievement, error) {
	var achs []models.Achievement
	err := d.Bun.NewSelect().
		Model(&achs).
		Where("game_id = ?", gameID).
		Order("date DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return achs, nil
}

func (d *DB) SetAchievementUnlocked(ctx context.Context, gameID, achID int64, unlocked bool) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Achievement)(nil)).
		Set("unlocked = ?", unlocked).
		Where("id = ? AND game_id = ?", achID, gameID).
		Exec(ctx)
	return err
}

func (d *DB) DeleteAchievement(ctx context.Context, gameID, achID int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Achievement)(nil)).
		Where("id = ? AND game_id = ?", achID, gameID).
		Exec(ctx)
	return err
}

// ReplaceSteamAchievements swaps out a game's Steam-synced achievement rows
// (api_name set) for a fresh set, leaving manual entries untouched.
func (d *DB) ReplaceSteamAchievements(ctx context.Context, gameID int64, achs []models.Achievement) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Achievement)(nil)).
			Where("game_id = ? AND api_name != ''", gameID).Exec(ctx); err != nil {
			return err
		}
		if len(achs) == 0 {
			return nil
		}

		rows := make([]models.Achievement, 0, len(achs))
		for _, a := range achs {
			a.ID = 0
			a.GameID = gameID
			rows = append(rows, a)
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
}

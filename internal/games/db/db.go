package db

import (
	"context"

	"github.com/uptrace/bun"

	"gametracker/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateGame(ctx context.Context, game *models.Game) error {
	_, err := d.Bun.NewInsert().Model(game).Exec(ctx)
	return err
}

func (d *DB) GetGameByID(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	err := d.Bun.NewSelect().
		Model(&game).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (d *DB) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	err := d.Bun.NewSelect().
		Model(&games).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (d *DB) UpdateGame(ctx context.Context, game *models.Game) error {
	_, err := d.Bun.NewUpdate().
		Model(game).
		Column("title", "platform", "status", "notes", "rating", "hours_played",
			"steam_app_id", "cover_url", "completion_date").
		Where("id = ?", game.ID).
		Exec(ctx)
	return err
}

// UpdateGameHours writes a refreshed cumulative hours value for one game.
// Only the snapshot recorder and explicit user edits touch this column.
func (d *DB) UpdateGameHours(ctx context.Context, id int64, hours float64) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Game)(nil)).
		Set("hours_played = ?", hours).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// DeleteGame removes a game and its dependent rows. Snapshot rows are left
// alone on purpose: history is denormalized and survives deletes.
func (d *DB) DeleteGame(ctx context.Context, id int64) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Tag)(nil)).
			Where("game_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Achievement)(nil)).
			Where("game_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.CompletionistAchievement)(nil)).
			Where("game_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*models.Game)(nil)).
			Where("id = ?", id).Exec(ctx)
		return err
	})
}

func (d *DB) TagsByGame(ctx context.Context, gameID int64) ([]string, error) {
	var tags []models.Tag
	err := d.Bun.NewSelect().
		Model(&tags).
		Where("game_id = ?", gameID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Tag)
	}
	return names, nil
}

func (d *DB) ReplaceTags(ctx context.Context, gameID int64, tags []string) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Tag)(nil)).
			Where("game_id = ?", gameID).Exec(ctx); err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}

		rows := make([]models.Tag, 0, len(tags))
		for _, t := range tags {
			rows = append(rows, models.Tag{GameID: gameID, Tag: t})
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
}

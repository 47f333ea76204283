package db

import (
	"context"

	"gametracker/internal/models"
)

func (d *DB) CreateCompletionist(ctx context.Context, comp *models.CompletionistAchievement) error {
	_, err := d.Bun.NewInsert().Model(comp).Exec(ctx)
	return err
}

func (d *DB) CompletionistByGame(ctx context.Context, gameID int64, sortBy string) ([]models.CompletionistAchievement, error) {
	var comps []models.CompletionistAchievement
	err := d.Bun.NewSelect().
		Model(&comps).
		Where("game_id = ?", gameID).
		Order(completionistOrder(sortBy)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return comps, nil
}

func (d *DB) UpdateCompletionist(ctx context.Context, comp *models.CompletionistAchievement) error {
	_, err := d.Bun.NewUpdate().
		Model(comp).
		Column("title", "description", "difficulty", "time_to_complete",
			"completion_date", "notes", "completed").
		Where("id = ? AND game_id = ?", comp.ID, comp.GameID).
		Exec(ctx)
	return err
}

func (d *DB) DeleteCompletionist(ctx context.Context, gameID, compID int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.CompletionistAchievement)(nil)).
		Where("id = ? AND game_id = ?", compID, gameID).
		Exec(ctx)
	return err
}

// AllCompletionist joins each challenge with its game title, filtered by
// completion status ("all", "completed" or "in_progress").
func (d *DB) AllCompletionist(ctx context.Context, sortBy, status string) ([]models.CompletionistAchievement, error) {
	var comps []models.CompletionistAchievement
	q := d.Bun.NewSelect().
		Model(&comps).
		ColumnExpr("ca.*").
		ColumnExpr("g.title AS game_title").
		Join("JOIN games AS g ON g.id = ca.game_id")

	switch status {
	case "completed":
		q = q.Where("ca.completed = ?", true)
	case "in_progress":
		q = q.Where("ca.completed = ?", false)
	}

	err := q.Order("ca." + completionistOrder(sortBy)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return comps, nil
}

func completionistOrder(sortBy string) string {
	if sortBy == "difficulty" {
		return "difficulty DESC"
	}
	return "created_at DESC"
}

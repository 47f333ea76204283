package db

import (
	"context"

	"github.com/uptrace/bun"

	"gametracker/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// WriteSnapshot stores one day's snapshot atomically: the aggregate row is
// upserted in place and the per-game rows for that date are fully replaced.
// Re-recording a date therefore never duplicates rows, and readers never see
// a torn snapshot.
func (d *DB) WriteSnapshot(ctx context.Context, agg models.DailySnapshot, games []models.DailyGameSnapshot) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&agg).
			On("CONFLICT (date) DO UPDATE").
			Set("total_hours = EXCLUDED.total_hours").
			Set("games_played = EXCLUDED.games_played").
			Exec(ctx)
		if err != nil {
			return err
		}

		if _, err := tx.NewDelete().Model((*models.DailyGameSnapshot)(nil)).
			Where("date = ?", agg.Date).Exec(ctx); err != nil {
			return err
		}
		if len(games) == 0 {
			return nil
		}
		_, err = tx.NewInsert().Model(&games).Exec(ctx)
		return err
	})
}

// RecentSnapshots returns the most recent limit snapshots in ascending date
// order.
func (d *DB) RecentSnapshots(ctx context.Context, limit int) ([]models.DailySnapshot, error) {
	var snaps []models.DailySnapshot
	err := d.Bun.NewSelect().
		Model(&snaps).
		Order("date DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(snaps)-1; i < j; i, j = i+1, j-1 {
		snaps[i], snaps[j] = snaps[j], snaps[i]
	}
	return snaps, nil
}

func (d *DB) GameSnapshotsByDate(ctx context.Context, date string) ([]models.DailyGameSnapshot, error) {
	var rows []models.DailyGameSnapshot
	err := d.Bun.NewSelect().
		Model(&rows).
		Where("date = ?", date).
		Order("hours_played DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DB) HasSnapshot(ctx context.Context, date string) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.DailySnapshot)(nil)).
		Where("date = ?", date).
		Exists(ctx)
}

func (d *DB) AppendRunLog(ctx context.Context, entry models.TrackerRunLog) error {
	_, err := d.Bun.NewInsert().Model(&entry).Exec(ctx)
	return err
}

// RecentRunLogs returns the latest recorder invocations, newest first.
func (d *DB) RecentRunLogs(ctx context.Context, limit int) ([]models.TrackerRunLog, error) {
	var entries []models.TrackerRunLog
	err := d.Bun.NewSelect().
		Model(&entries).
		Order("ran_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"gametracker/internal/games/db"
	"gametracker/internal/models"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Game)(nil),
		(*models.Achievement)(nil),
		(*models.CompletionistAchievement)(nil),
		(*models.Tag)(nil),
	} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(ctx); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func insertTestGame(t *testing.T, gameDB *db.DB, title string) *models.Game {
	hours := 10.0
	game := &models.Game{
		Title:       title,
		Platform:    "PC",
		Status:      "playing",
		HoursPlayed: &hours,
	}
	if err := gameDB.CreateGame(context.Background(), game); err != nil {
		t.Fatalf("Failed to insert test game: %v", err)
	}
	return game
}

func TestCreateAndGetGame(t *testing.T) {
	gameDB, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	game := insertTestGame(t, gameDB, "Hades")
	assert.NotZero(t, game.ID, "insert should populate the autoincrement ID")

	got, err := gameDB.GetGameByID(ctx, game.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Hades", got.Title)
	assert.Equal(t, "PC", got.Platform)

	// Non-existent game.
	got, err = gameDB.GetGameByID(ctx, 9999)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestUpdateGameHours(t *testing.T) {
	gameDB, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	game := insertTestGame(t, gameDB, "Hades")

	err := gameDB.UpdateGameHours(ctx, game.ID, 12.5)
	assert.NoError(t, err)

	got, err := gameDB.GetGameByID(ctx, game.ID)
	assert.NoError(t, err)
	assert.Equal(t, 12.5, *got.HoursPlayed)

	// Other columns are untouched.
	assert.Equal(t, "Hades", got.Title)
	assert.Equal(t, "playing", got.Status)
}

func TestDeleteGameCascades(t *testing.T) {
	gameDB, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	game := insertTestGame(t, gameDB, "Hades")

	err := gameDB.CreateAchievement(ctx, &models.Achievement{
		GameID: game.ID, Title: "Escaped", APIName: "escape_1",
	})
	assert.NoError(t, err)
	err = gameDB.CreateCompletionist(ctx, &models.CompletionistAchievement{
		GameID: game.ID, Title: "Heat 32",
	})
	assert.NoError(t, err)
	err = gameDB.ReplaceTags(ctx, game.ID, []string{"Roguelike", "Action"})
	assert.NoError(t, err)

	err = gameDB.DeleteGame(ctx, game.ID)
	assert.NoError(t, err)

	// All dependent rows are gone.
	for _, model := range []interface{}{
		(*models.Achievement)(nil),
		(*models.CompletionistAchievement)(nil),
		(*models.Tag)(nil),
	} {
		count, err := bunDB.NewSelect().Model(model).
			Where("game_id = ?", game.ID).Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	}

	_, err = gameDB.GetGameByID(ctx, game.ID)
	assert.Error(t, err)
}

func TestReplaceTags(t *testing.T) {
	gameDB, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	game := insertTestGame(t, gameDB, "Hades")

	err := gameDB.ReplaceTags(ctx, game.ID, []string{"Roguelike", "Action"})
	assert.NoError(t, err)

	tags, err := gameDB.TagsByGame(ctx, game.ID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"Roguelike", "Action"}, tags)

	// Replacing swaps the whole set, it never appends.
	err = gameDB.ReplaceTags(ctx, game.ID, []string{"Indie"})
	assert.NoError(t, err)

	tags, err = gameDB.TagsByGame(ctx, game.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Indie"}, tags)

	// Empty set clears everything.
	err = gameDB.ReplaceTags(ctx, game.ID, nil)
	assert.NoError(t, err)

	tags, err = gameDB.TagsByGame(ctx, game.ID)
	assert.NoError(t, err)
	assert.Empty(t, tags)
}

func TestReplaceSteamAchievementsKeepsManualRows(t *testing.T) {
	gameDB, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	game := insertTestGame(t, gameDB, "Hades")

	// One manual entry (no api_name), one synced entry.
	err := gameDB.CreateAchievement(ctx, &models.Achievement{
		GameID: game.ID, Title: "Personal goal: no-hit run",
	})
	assert.NoError(t, err)
	err = gameDB.CreateAchievement(ctx, &models.Achievement{
		GameID: game.ID, Title: "Old synced", APIName: "old_api",
	})
	assert.NoError(t, err)

	err = gameDB.ReplaceSteamAchievements(ctx, game.ID, []models.Achievement{
		{Title: "Escaped", APIName: "escape_1", Unlocked: true},
		{Title: "Angler", APIName: "fish_1"},
	})
	assert.NoError(t, err)

	achs, err := gameDB.AchievementsByGame(ctx, game.ID)
	assert.NoError(t, err)
	assert.Len(t, achs, 3)

	titles := make([]string, 0, len(achs))
	for _, a := range achs {
		titles = append(titles, a.Title)
		assert.Equal(t, game.ID, a.GameID)
	}
	assert.Contains(t, titles, "Personal goal: no-hit run")
	assert.Contains(t, titles, "Escaped")
	assert.Contains(t, titles, "Angler")
	assert.NotContains(t, titles, "Old synced", "stale synced rows must be replaced")
}

func TestSetAchievementUnlocked(t *testing.T) {
	gameDB, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	game := insertTestGame(t, gameDB, "Hades")
	ach := &models.Achievement{GameID: game.ID, Title: "Escaped"}
	err := gameDB.CreateAchievement(ctx, ach)
	assert.NoError(t, err)

	err = gameDB.SetAchievementUnlocked(ctx, game.ID, ach.ID, true)
	assert.NoError(t, err)

	achs, err := gameDB.AchievementsByGame(ctx, game.ID)
	assert.NoError(t, err)
	assert.Len(t, achs, 1)
	assert.True(t, achs[0].Unlocked)
}

func TestAllCompletionist(t *testing.T) {
	gameDB, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	hades := insertTestGame(t, gameDB, "Hades")
	celeste := insertTestGame(t, gameDB, "Celeste")

	err := gameDB.CreateCompletionist(ctx, &models.CompletionistAchievement{
		GameID: hades.ID, Title: "Heat 32", Difficulty: 10, Completed: false,
	})
	assert.NoError(t, err)
	err = gameDB.CreateCompletionist(ctx, &models.CompletionistAchievement{
		GameID: celeste.ID, Title: "Golden strawberries", Difficulty: 9, Completed: true,
	})
	assert.NoError(t, err)

	// All entries carry their game title from the join.
	comps, err := gameDB.AllCompletionist(ctx, "difficulty", "all")
	assert.NoError(t, err)
	assert.Len(t, comps, 2)
	assert.Equal(t, "Heat 32", comps[0].Title)
	assert.Equal(t, "Hades", comps[0].GameTitle)
	assert.Equal(t, "Celeste", comps[1].GameTitle)

	// Status filters.
	comps, err = gameDB.AllCompletionist(ctx, "difficulty", "completed")
	assert.NoError(t, err)
	assert.Len(t, comps, 1)
	assert.Equal(t, "Golden strawberries", comps[0].Title)

	comps, err = gameDB.AllCompletionist(ctx, "difficulty", "in_progress")
	assert.NoError(t, err)
	assert.Len(t, comps, 1)
	assert.Equal(t, "Heat 32", comps[0].Title)
}

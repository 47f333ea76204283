package snapshot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gametracker/internal/models"
	"gametracker/internal/snapshot"
)

type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) RecentSnapshots(ctx context.Context, limit int) ([]models.DailySnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailySnapshot), args.Error(1)
}

func (m *MockHistoryStore) GameSnapshotsByDate(ctx context.Context, date string) ([]models.DailyGameSnapshot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyGameSnapshot), args.Error(1)
}

func (m *MockHistoryStore) HasSnapshot(ctx context.Context, date string) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}

func TestDailyHistoryDeltas(t *testing.T) {
	mockStore := new(MockHistoryStore)
	// Four snapshots come back for a three-day window: the oldest one is the
	// delta baseline and is not part of the result.
	mockStore.On("RecentSnapshots", mock.Anything, 4).Return([]models.DailySnapshot{
		{Date: "2025-03-07", TotalHours: 100.0, GamesPlayed: 3},
		{Date: "2025-03-08", TotalHours: 102.5, GamesPlayed: 3},
		{Date: "2025-03-09", TotalHours: 102.5, GamesPlayed: 3},
		{Date: "2025-03-10", TotalHours: 106.0, GamesPlayed: 4},
	}, nil)

	svc := snapshot.NewHistoryService(mockStore, 0.1)
	entries, err := svc.DailyHistory(context.Background(), 3)

	assert.NoError(t, err)
	assert.Len(t, entries, 3)

	// Ascending date order, deltas against the previous snapshot.
	assert.Equal(t, "2025-03-08", entries[0].Date)
	assert.Equal(t, 2.5, entries[0].HoursAdded)
	assert.Equal(t, "2025-03-09", entries[1].Date)
	assert.Equal(t, 0.0, entries[1].HoursAdded)
	assert.Equal(t, "2025-03-10", entries[2].Date)
	assert.Equal(t, 3.5, entries[2].HoursAdded)
	assert.Equal(t, 106.0, entries[2].TotalHours)
}

func TestDailyHistoryWithoutBaseline(t *testing.T) {
	mockStore := new(MockHistoryStore)
	// Fewer snapshots exist than the window asks for: the earliest entry has
	// no predecessor, so its delta is zero rather than its lifetime total.
	mockStore.On("RecentSnapshots", mock.Anything, 31).Return([]models.DailySnapshot{
		{Date: "2025-03-09", TotalHours: 50.0, GamesPlayed: 2},
		{Date: "2025-03-10", TotalHours: 51.0, GamesPlayed: 2},
	}, nil)

	svc := snapshot.NewHistoryService(mockStore, 0.1)
	entries, err := svc.DailyHistory(context.Background(), 30)

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 0.0, entries[0].HoursAdded)
	assert.Equal(t, 1.0, entries[1].HoursAdded)
}

func TestDailyHistoryEmpty(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("RecentSnapshots", mock.Anything, 8).Return([]models.DailySnapshot{}, nil)

	svc := snapshot.NewHistoryService(mockStore, 0.1)
	entries, err := svc.DailyHistory(context.Background(), 7)

	assert.NoError(t, err)
	assert.Empty(t, entries)

	// A non-positive window never hits the store.
	entries, err = svc.DailyHistory(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGamesPlayedOnDate(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("HasSnapshot", mock.Anything, "2025-03-10").Return(true, nil)
	mockStore.On("HasSnapshot", mock.Anything, "2025-03-09").Return(true, nil)
	mockStore.On("GameSnapshotsByDate", mock.Anything, "2025-03-10").Return([]models.DailyGameSnapshot{
		{Date: "2025-03-10", GameID: 1, GameTitle: "Hades", HoursPlayed: 12.0, CoverURL: "/static/covers/game_1.jpg"},
		{Date: "2025-03-10", GameID: 2, GameTitle: "Celeste", HoursPlayed: 5.0},
		{Date: "2025-03-10", GameID: 3, GameTitle: "Doom", HoursPlayed: 8.0},
	}, nil)
	mockStore.On("GameSnapshotsByDate", mock.Anything, "2025-03-09").Return([]models.DailyGameSnapshot{
		{Date: "2025-03-09", GameID: 1, GameTitle: "Hades", HoursPlayed: 10.0},
		{Date: "2025-03-09", GameID: 2, GameTitle: "Celeste", HoursPlayed: 5.0},
		// Doom is new today, so it counts from zero.
	}, nil)

	svc := snapshot.NewHistoryService(mockStore, 0.1)
	breakdown, err := svc.GamesPlayedOnDate(context.Background(), "2025-03-10")

	assert.NoError(t, err)
	assert.False(t, breakdown.IsFirstDay)
	assert.Len(t, breakdown.Games, 2)

	// Sorted by hours added, descending. Celeste's zero delta is filtered.
	assert.Equal(t, "Doom", breakdown.Games[0].Title)
	assert.Equal(t, 8.0, breakdown.Games[0].HoursAdded)
	assert.Equal(t, "Hades", breakdown.Games[1].Title)
	assert.Equal(t, 2.0, breakdown.Games[1].HoursAdded)
	assert.Equal(t, 12.0, breakdown.Games[1].TotalHours)
}

func TestGamesPlayedOnDateEpsilonFilter(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("HasSnapshot", mock.Anything, "2025-03-10").Return(true, nil)
	mockStore.On("HasSnapshot", mock.Anything, "2025-03-09").Return(true, nil)
	mockStore.On("GameSnapshotsByDate", mock.Anything, "2025-03-10").Return([]models.DailyGameSnapshot{
		{Date: "2025-03-10", GameID: 1, GameTitle: "Hades", HoursPlayed: 10.05},
		{Date: "2025-03-10", GameID: 2, GameTitle: "Celeste", HoursPlayed: 5.15},
	}, nil)
	mockStore.On("GameSnapshotsByDate", mock.Anything, "2025-03-09").Return([]models.DailyGameSnapshot{
		{Date: "2025-03-09", GameID: 1, GameTitle: "Hades", HoursPlayed: 10.0},
		{Date: "2025-03-09", GameID: 2, GameTitle: "Celeste", HoursPlayed: 5.0},
	}, nil)

	svc := snapshot.NewHistoryService(mockStore, 0.1)
	breakdown, err := svc.GamesPlayedOnDate(context.Background(), "2025-03-10")

	assert.NoError(t, err)
	// +0.05 is rounding noise and stays out; +0.15 clears the threshold.
	assert.Len(t, breakdown.Games, 1)
	assert.Equal(t, "Celeste", breakdown.Games[0].Title)
}

func TestGamesPlayedOnFirstDay(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("HasSnapshot", mock.Anything, "2025-03-10").Return(true, nil)
	mockStore.On("HasSnapshot", mock.Anything, "2025-03-09").Return(false, nil)

	svc := snapshot.NewHistoryService(mockStore, 0.1)
	breakdown, err := svc.GamesPlayedOnDate(context.Background(), "2025-03-10")

	// With no prior snapshot there is no basis for deltas; the whole library
	// must not be reported as played.
	assert.NoError(t, err)
	assert.True(t, breakdown.IsFirstDay)
	assert.Empty(t, breakdown.Games)
	mockStore.AssertNotCalled(t, "GameSnapshotsByDate", mock.Anything, mock.Anything)
}

func TestGamesPlayedOnDateErrors(t *testing.T) {
	mockStore := new(MockHistoryStore)
	mockStore.On("HasSnapshot", mock.Anything, "2025-03-11").Return(false, nil)

	svc := snapshot.NewHistoryService(mockStore, 0.1)

	// Malformed date is a client error.
	_, err := svc.GamesPlayedOnDate(context.Background(), "10-03-2025")
	assert.ErrorIs(t, err, snapshot.ErrBadDate)

	// A well-formed date with no snapshot is a different condition.
	_, err = svc.GamesPlayedOnDate(context.Background(), "2025-03-11")
	assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)
}

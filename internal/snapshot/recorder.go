package snapshot

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"gametracker/internal/logger"
	"gametracker/internal/models"
)

// GameStore is the slice of the game registry the recorder needs.
type GameStore interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	UpdateGameHours(ctx context.Context, id int64, hours float64) error
	ReplaceSteamAchievements(ctx context.Context, gameID int64, achs []models.Achievement) error
}

// PlaytimeSource is the external playtime adapter. Both methods may fail;
// the recorder treats every source error as non-fatal.
type PlaytimeSource interface {
	FetchLibraryPlaytime(ctx context.Context) (map[int64]float64, error)
	GetPlayerAchievements(ctx context.Context, appID int64) ([]models.Achievement, error)
}

// Store persists snapshot rows. WriteSnapshot must be transactional: the
// aggregate row and the per-game rows for a date land together or not at all.
type Store interface {
	WriteSnapshot(ctx context.Context, agg models.DailySnapshot, games []models.DailyGameSnapshot) error
	GameSnapshotsByDate(ctx context.Context, date string) ([]models.DailyGameSnapshot, error)
	HasSnapshot(ctx context.Context, date string) (bool, error)
	AppendRunLog(ctx context.Context, entry models.TrackerRunLog) error
}

// EventPublisher is notified after a successful cycle. Optional.
type EventPublisher interface {
	SnapshotRecorded(date string, totalHours float64, gamesPlayed int) error
}

// Recorder runs one reconciliation cycle: refresh cumulative hours from the
// source, write the day's snapshot rows in one transaction, then refresh
// achievement detail for games that were played.
type Recorder struct {
	Games  GameStore
	Source PlaytimeSource
	Store  Store
	Guard  RunGuard
	Events EventPublisher
	Logger *logger.Logger

	// Location fixes the calendar-day boundary for snapshots.
	Location *time.Location
	// PlayedEpsilon is the minimum hours increase that counts as played.
	PlayedEpsilon float64

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewRecorder(games GameStore, source PlaytimeSource, store Store, guard RunGuard,
	log *logger.Logger, loc *time.Location, playedEpsilon float64) *Recorder {
	return &Recorder{
		Games:         games,
		Source:        source,
		Store:         store,
		Guard:         guard,
		Logger:        log,
		Location:      loc,
		PlayedEpsilon: playedEpsilon,
		Now:           time.Now,
	}
}

// Run executes one full cycle and never panics the caller: source failures
// downgrade to a stale-data snapshot, and only the core snapshot write can
// fail the cycle.
func (r *Recorder) Run(ctx context.Context, trigger string) RecordResult {
	if !r.Guard.TryAcquire() {
		r.Logger.Warn("SNAPSHOT", "Cycle already running, skipping this trigger")
		return RecordResult{Status: StatusSkipped}
	}
	defer r.Guard.Release()

	targetDate := DateIn(r.Now(), r.Location)
	result := RecordResult{Status: StatusRecorded, TargetDate: targetDate}
	r.Logger.LogSnapshot("START", targetDate, fmt.Sprintf("trigger=%s", trigger))

	games, err := r.Games.ListGames(ctx)
	if err != nil {
		return r.fail(ctx, trigger, result, fmt.Errorf("failed to load game registry: %w", err))
	}

	playtime, sourceErr := r.refreshHours(ctx, games)
	if sourceErr != nil {
		// Stale snapshot beats no snapshot: keep going on stored hours.
		result.SourceError = sourceErr.Error()
		r.Logger.Warn("SNAPSHOT", fmt.Sprintf("Playtime refresh failed, recording stored hours: %v", sourceErr))
	}

	var totalHours float64
	var gamesCount int
	rows := make([]models.DailyGameSnapshot, 0, len(games))
	for _, g := range games {
		if g.HoursPlayed == nil {
			continue
		}
		totalHours += *g.HoursPlayed
		if *g.HoursPlayed > 0 {
			gamesCount++
			rows = append(rows, models.DailyGameSnapshot{
				Date:        targetDate,
				GameID:      g.ID,
				GameTitle:   g.Title,
				HoursPlayed: *g.HoursPlayed,
				CoverURL:    g.CoverURL,
			})
		}
	}

	result.TotalHours = roundHours(totalHours)
	result.GamesCount = gamesCount

	agg := models.DailySnapshot{
		Date:        targetDate,
		TotalHours:  result.TotalHours,
		GamesPlayed: gamesCount,
		CreatedAt:   r.Now(),
	}
	if err := r.Store.WriteSnapshot(ctx, agg, rows); err != nil {
		return r.fail(ctx, trigger, result, fmt.Errorf("snapshot write failed: %w", err))
	}
	r.Logger.LogSnapshot("RECORDED", targetDate,
		fmt.Sprintf("total=%.1fh games=%d", result.TotalHours, gamesCount))

	// Achievement refresh only makes sense when the source answered this
	// cycle, and only for games that gained hours since yesterday.
	if sourceErr == nil && playtime != nil {
		r.refreshAchievements(ctx, targetDate, games, rows)
	}

	r.appendRunLog(ctx, trigger, result, "")

	if r.Events != nil {
		if err := r.Events.SnapshotRecorded(targetDate, result.TotalHours, gamesCount); err != nil {
			r.Logger.Warn("SNAPSHOT", fmt.Sprintf("Failed to publish snapshot event: %v", err))
		}
	}
	return result
}

// refreshHours pulls cumulative playtime for the whole library in one call
// and writes updated hours back to the registry. Returns the fetched mapping
// so the caller knows whether the source answered.
func (r *Recorder) refreshHours(ctx context.Context, games []models.Game) (map[int64]float64, error) {
	playtime, err := r.Source.FetchLibraryPlaytime(ctx)
	if err != nil {
		return nil, err
	}

	for i := range games {
		g := &games[i]
		if g.SteamAppID == nil {
			continue
		}
		minutes, ok := playtime[*g.SteamAppID]
		if !ok {
			continue
		}
		hours := roundHours(minutes / 60)
		if g.HoursPlayed != nil && hours < *g.HoursPlayed {
			// Cumulative counters never go down; a lower value means the
			// source returned partial data for this game.
			r.Logger.Warn("SNAPSHOT", fmt.Sprintf(
				"Ignoring decreased hours for game %d: %.1f -> %.1f", g.ID, *g.HoursPlayed, hours))
			continue
		}
		g.HoursPlayed = &hours
		if err := r.Games.UpdateGameHours(ctx, g.ID, hours); err != nil {
			r.Logger.Warn("SNAPSHOT", fmt.Sprintf("Failed to store hours for game %d: %v", g.ID, err))
		}
	}
	return playtime, nil
}

// refreshAchievements re-fetches unlock detail for every game whose snapshot
// hours exceed yesterday's by more than the played epsilon. Per-game failures
// are logged and never abort the cycle.
func (r *Recorder) refreshAchievements(ctx context.Context, targetDate string, games []models.Game, rows []models.DailyGameSnapshot) {
	prevDate, err := PrevDate(targetDate)
	if err != nil {
		return
	}
	hasPrev, err := r.Store.HasSnapshot(ctx, prevDate)
	if err != nil || !hasPrev {
		// No baseline yet; skip rather than treating the whole library as
		// freshly played.
		return
	}
	prevRows, err := r.Store.GameSnapshotsByDate(ctx, prevDate)
	if err != nil {
		r.Logger.Warn("SNAPSHOT", fmt.Sprintf("Failed to load previous snapshot: %v", err))
		return
	}

	prevHours := make(map[int64]float64, len(prevRows))
	for _, p := range prevRows {
		prevHours[p.GameID] = p.HoursPlayed
	}
	appIDs := make(map[int64]*int64, len(games))
	for i := range games {
		appIDs[games[i].ID] = games[i].SteamAppID
	}

	for _, row := range rows {
		if row.HoursPlayed-prevHours[row.GameID] <= r.PlayedEpsilon {
			continue
		}
		appID := appIDs[row.GameID]
		if appID == nil {
			continue
		}

		achs, err := r.Source.GetPlayerAchievements(ctx, *appID)
		if err != nil {
			r.Logger.Warn("SNAPSHOT", fmt.Sprintf(
				"Achievement refresh failed for game %d (app %d): %v", row.GameID, *appID, err))
			continue
		}
		if err := r.Games.ReplaceSteamAchievements(ctx, row.GameID, achs); err != nil {
			r.Logger.Warn("SNAPSHOT", fmt.Sprintf(
				"Failed to store achievements for game %d: %v", row.GameID, err))
		}
	}
}

func (r *Recorder) fail(ctx context.Context, trigger string, result RecordResult, err error) RecordResult {
	result.Status = StatusFailed
	result.Error = err.Error()
	r.Logger.Error("SNAPSHOT", fmt.Sprintf(
		"Cycle failed for %s (total=%.1fh games=%d): %v",
		result.TargetDate, result.TotalHours, result.GamesCount, err))
	r.appendRunLog(ctx, trigger, result, err.Error())
	return result
}

func (r *Recorder) appendRunLog(ctx context.Context, trigger string, result RecordResult, errText string) {
	entry := models.TrackerRunLog{
		ID:         uuid.New().String(),
		RanAt:      r.Now(),
		Trigger:    trigger,
		TargetDate: result.TargetDate,
		Success:    result.Status == StatusRecorded,
		TotalHours: result.TotalHours,
		GamesCount: result.GamesCount,
		Error:      errText,
	}
	if entry.Error == "" {
		entry.Error = result.SourceError
	}
	if err := r.Store.AppendRunLog(ctx, entry); err != nil {
		r.Logger.Warn("SNAPSHOT", fmt.Sprintf("Failed to append run log: %v", err))
	}
}

func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

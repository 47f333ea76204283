package snapshot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gametracker/internal/models"
)

var (
	// ErrBadDate is a client-input problem, not a system fault.
	ErrBadDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrNoSnapshot means no snapshot was recorded for the requested date.
	ErrNoSnapshot = errors.New("no snapshot recorded for date")
)

// HistoryStore is the read side of the snapshot tables.
type HistoryStore interface {
	RecentSnapshots(ctx context.Context, limit int) ([]models.DailySnapshot, error)
	GameSnapshotsByDate(ctx context.Context, date string) ([]models.DailyGameSnapshot, error)
	HasSnapshot(ctx context.Context, date string) (bool, error)
}

type DailyHistoryEntry struct {
	Date        string  `json:"date"`
	TotalHours  float64 `json:"total_hours"`
	HoursAdded  float64 `json:"hours_added"`
	GamesPlayed int     `json:"games_played"`
}

type GamePlayed struct {
	GameID     int64   `json:"game_id"`
	Title      string  `json:"title"`
	HoursAdded float64 `json:"hours_added"`
	TotalHours float64 `json:"total_hours"`
	CoverURL   string  `json:"cover"`
}

type DayBreakdown struct {
	Date       string       `json:"date"`
	IsFirstDay bool         `json:"is_first_day"`
	Games      []GamePlayed `json:"games"`
}

// HistoryService derives day-over-day deltas from consecutive snapshots.
// Deltas are always computed on read, never stored.
type HistoryService struct {
	Store HistoryStore
	// PlayedEpsilon filters out floating-point noise in per-game deltas.
	PlayedEpsilon float64
}

func NewHistoryService(store HistoryStore, playedEpsilon float64) *HistoryService {
	return &HistoryService{Store: store, PlayedEpsilon: playedEpsilon}
}

// DailyHistory returns up to days entries in ascending date order, covering
// only dates that actually have a snapshot (failed days leave gaps). One
// extra snapshot before the window is used as a delta baseline when it
// exists; otherwise the earliest entry reports zero hours added.
func (s *HistoryService) DailyHistory(ctx context.Context, days int) ([]DailyHistoryEntry, error) {
	if days <= 0 {
		return []DailyHistoryEntry{}, nil
	}

	snaps, err := s.Store.RecentSnapshots(ctx, days+1)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	if len(snaps) == 0 {
		return []DailyHistoryEntry{}, nil
	}

	var baseline float64
	if len(snaps) > days {
		baseline = snaps[0].TotalHours
		snaps = snaps[1:]
	} else {
		baseline = snaps[0].TotalHours
	}

	entries := make([]DailyHistoryEntry, 0, len(snaps))
	prevTotal := baseline
	for _, snap := range snaps {
		entries = append(entries, DailyHistoryEntry{
			Date:        snap.Date,
			TotalHours:  snap.TotalHours,
			HoursAdded:  roundHours(math.Max(snap.TotalHours-prevTotal, 0)),
			GamesPlayed: snap.GamesPlayed,
		})
		prevTotal = snap.TotalHours
	}
	return entries, nil
}

// GamesPlayedOnDate diffs the date's per-game rows against the previous
// day's. A game absent from the prior snapshot counts from zero. When no
// snapshot exists for the prior day at all, the result flags the first-day
// case instead of reporting the entire library as played.
func (s *HistoryService) GamesPlayedOnDate(ctx context.Context, date string) (*DayBreakdown, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, date)
	}

	has, err := s.Store.HasSnapshot(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot for %s: %w", date, err)
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, date)
	}

	prevDate, err := PrevDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, date)
	}

	breakdown := &DayBreakdown{Date: date, Games: []GamePlayed{}}

	hasPrev, err := s.Store.HasSnapshot(ctx, prevDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot for %s: %w", prevDate, err)
	}
	if !hasPrev {
		// Absence of a baseline is not evidence of play.
		breakdown.IsFirstDay = true
		return breakdown, nil
	}

	rows, err := s.Store.GameSnapshotsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot rows for %s: %w", date, err)
	}
	prevRows, err := s.Store.GameSnapshotsByDate(ctx, prevDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot rows for %s: %w", prevDate, err)
	}

	prevHours := make(map[int64]float64, len(prevRows))
	for _, p := range prevRows {
		prevHours[p.GameID] = p.HoursPlayed
	}

	for _, row := range rows {
		added := row.HoursPlayed - prevHours[row.GameID]
		if added <= s.PlayedEpsilon {
			continue
		}
		breakdown.Games = append(breakdown.Games, GamePlayed{
			GameID:     row.GameID,
			Title:      row.GameTitle,
			HoursAdded: roundHours(added),
			TotalHours: row.HoursPlayed,
			CoverURL:   row.CoverURL,
		})
	}

	sort.Slice(breakdown.Games, func(i, j int) bool {
		return breakdown.Games[i].HoursAdded > breakdown.Games[j].HoursAdded
	})
	return breakdown, nil
}

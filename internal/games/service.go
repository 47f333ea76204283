package games

import (
	"context"
	"fmt"
	"strings"

	"gametracker/internal/logger"
	"gametracker/internal/models"
)

type GameDBLayer interface {
	CreateGame(ctx context.Context, game *models.Game) error
	GetGameByID(ctx context.Context, id int64) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	UpdateGame(ctx context.Context, game *models.Game) error
	DeleteGame(ctx context.Context, id int64) error
	TagsByGame(ctx context.Context, gameID int64) ([]string, error)
	ReplaceTags(ctx context.Context, gameID int64, tags []string) error

	CreateAchievement(ctx context.Context, ach *models.Achievement) error
	AchievementsByGame(ctx context.Context, gameID int64) ([]models.Achievement, error)
	SetAchievementUnlocked(ctx context.Context, gameID, achID int64, unlocked bool) error
	DeleteAchievement(ctx context.Context, gameID, achID int64) error

	CreateCompletionist(ctx context.Context, comp *models.CompletionistAchievement) error
	CompletionistByGame(ctx context.Context, gameID int64, sortBy string) ([]models.CompletionistAchievement, error)
	UpdateCompletionist(ctx context.Context, comp *models.CompletionistAchievement) error
	DeleteCompletionist(ctx context.Context, gameID, compID int64) error
	AllCompletionist(ctx context.Context, sortBy, status string) ([]models.CompletionistAchievement, error)
}

type CoverFetcher interface {
	Download(ctx context.Context, url string, gameID int64) (string, error)
}

type GameService struct {
	DB     GameDBLayer
	Covers CoverFetcher
	Logger *logger.Logger
}

func NewGameService(db GameDBLayer, covers CoverFetcher, log *logger.Logger) *GameService {
	return &GameService{DB: db, Covers: covers, Logger: log}
}

func (s *GameService) AddGame(ctx context.Context, req models.GameRequest) (*models.Game, error) {
	game := &models.Game{
		Title:          req.Title,
		Platform:       req.Platform,
		Status:         req.Status,
		Notes:          req.Notes,
		Rating:         req.Rating,
		HoursPlayed:    req.HoursPlayed,
		SteamAppID:     req.SteamAppID,
		CompletionDate: req.CompletionDate,
	}
	if !isExternalURL(req.CoverURL) {
		game.CoverURL = req.CoverURL
	}

	if err := s.DB.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	// External covers get mirrored locally once we know the game ID.
	if isExternalURL(req.CoverURL) {
		if local, err := s.Covers.Download(ctx, req.CoverURL, game.ID); err != nil {
			s.Logger.Warn("COVERS", fmt.Sprintf("Cover download failed for game %d: %v", game.ID, err))
		} else {
			game.CoverURL = local
			if err := s.DB.UpdateGame(ctx, game); err != nil {
				return nil, fmt.Errorf("failed to store cover path: %w", err)
			}
		}
	}

	if len(req.Tags) > 0 {
		if err := s.DB.ReplaceTags(ctx, game.ID, req.Tags); err != nil {
			return nil, fmt.Errorf("failed to store tags: %w", err)
		}
		game.Tags = req.Tags
	}
	return game, nil
}

func (s *GameService) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	game, err := s.DB.GetGameByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("game %d not found: %w", id, err)
	}

	tags, err := s.DB.TagsByGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags for game %d: %w", id, err)
	}
	game.Tags = tags
	return game, nil
}

func (s *GameService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.DB.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	for i := range games {
		tags, err := s.DB.TagsByGame(ctx, games[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load tags for game %d: %w", games[i].ID, err)
		}
		games[i].Tags = tags
	}
	return games, nil
}

func (s *GameService) UpdateGame(ctx context.Context, id int64, req models.GameRequest) error {
	game, err := s.DB.GetGameByID(ctx, id)
	if err != nil {
		return fmt.Errorf("game %d not found: %w", id, err)
	}

	coverURL := req.CoverURL
	if isExternalURL(coverURL) && coverURL != game.CoverURL {
		if local, err := s.Covers.Download(ctx, coverURL, id); err != nil {
			s.Logger.Warn("COVERS", fmt.Sprintf("Cover download failed for game %d: %v", id, err))
		} else {
			coverURL = local
		}
	}

	game.Title = req.Title
	game.Platform = req.Platform
	game.Status = req.Status
	game.Notes = req.Notes
	game.Rating = req.Rating
	game.HoursPlayed = req.HoursPlayed
	game.SteamAppID = req.SteamAppID
	game.CoverURL = coverURL
	game.CompletionDate = req.CompletionDate

	if err := s.DB.UpdateGame(ctx, game); err != nil {
		return fmt.Errorf("failed to update game %d: %w", id, err)
	}
	if err := s.DB.ReplaceTags(ctx, id, req.Tags); err != nil {
		return fmt.Errorf("failed to update tags for game %d: %w", id, err)
	}
	return nil
}

func (s *GameService) DeleteGame(ctx context.Context, id int64) error {
	if _, err := s.DB.GetGameByID(ctx, id); err != nil {
		return fmt.Errorf("game %d not found: %w", id, err)
	}
	if err := s.DB.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return nil
}

func (s *GameService) AddAchievement(ctx context.Context, gameID int64, ach models.Achievement) (*models.Achievement, error) {
	ach.GameID = gameID
	if err := s.DB.CreateAchievement(ctx, &ach); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return &ach, nil
}

func (s *GameService) Achievements(ctx context.Context, gameID int64) ([]models.Achievement, error) {
	return s.DB.AchievementsByGame(ctx, gameID)
}

func (s *GameService) SetAchievementUnlocked(ctx context.Context, gameID, achID int64, unlocked bool) error {
	return s.DB.SetAchievementUnlocked(ctx, gameID, achID, unlocked)
}

func (s *GameService) DeleteAchievement(ctx context.Context, gameID, achID int64) error {
	return s.DB.DeleteAchievement(ctx, gameID, achID)
}

func (s *GameService) AddCompletionist(ctx context.Context, gameID int64, comp models.CompletionistAchievement) (*models.CompletionistAchievement, error) {
	comp.GameID = gameID
	if err := s.DB.CreateCompletionist(ctx, &comp); err != nil {
		return nil, fmt.Errorf("failed to create completionist entry: %w", err)
	}
	return &comp, nil
}

func (s *GameService) Completionist(ctx context.Context, gameID int64, sortBy string) ([]models.CompletionistAchievement, error) {
	return s.DB.CompletionistByGame(ctx, gameID, sortBy)
}

func (s *GameService) UpdateCompletionist(ctx context.Context, gameID, compID int64, comp models.CompletionistAchievement) error {
	comp.ID = compID
	comp.GameID = gameID
	return s.DB.UpdateCompletionist(ctx, &comp)
}

func (s *GameService) DeleteCompletionist(ctx context.Context, gameID, compID int64) error {
	return s.DB.DeleteCompletionist(ctx, gameID, compID)
}

func (s *GameService) AllCompletionist(ctx context.Context, sortBy, status string) ([]models.CompletionistAchievement, error) {
	return s.DB.AllCompletionist(ctx, sortBy, status)
}

func isExternalURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

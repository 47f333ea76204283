package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gametracker/internal/models"
)

type schemaResponse struct {
	Game struct {
		AvailableGameStats struct {
			Achievements []struct {
				Name        string `json:"name"`
				DisplayName string `json:"displayName"`
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"achievements"`
		} `json:"availableGameStats"`
	} `json:"game"`
}

type playerAchievementsResponse struct {
	PlayerStats struct {
		Success      bool `json:"success"`
		Achievements []struct {
			APIName    string `json:"apiname"`
			Achieved   int    `json:"achieved"`
			UnlockTime int64  `json:"unlocktime"`
		} `json:"achievements"`
	} `json:"playerstats"`
}

// GetPlayerAchievements merges the game's achievement schema with the
// configured user's unlock progress. Games without a schema return an
// empty slice rather than an error.
func (c *Client) GetPlayerAchievements(ctx context.Context, appID int64) ([]models.Achievement, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: api key not configured", ErrSourceUnavailable)
	}

	schemaURL := fmt.Sprintf("%s/ISteamUserStats/GetSchemaForGame/v2/?key=%s&appid=%d",
		c.APIBase, c.APIKey, appID)
	body, err := c.doGet(ctx, schemaURL)
	if err != nil {
		return nil, err
	}

	var schema schemaResponse
	if err := json.Unmarshal(body, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceInvalidData, err)
	}

	unlocks := map[string]struct {
		achieved   bool
		unlockTime int64
	}{}

	if c.SteamID != "" {
		playerURL := fmt.Sprintf(
			"%s/ISteamUserStats/GetPlayerAchievements/v0001/?appid=%d&key=%s&steamid=%s",
			c.APIBase, appID, c.APIKey, c.SteamID,
		)
		body, err := c.doGet(ctx, playerURL)
		if err != nil {
			return nil, err
		}

		var player playerAchievementsResponse
		if err := json.Unmarshal(body, &player); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceInvalidData, err)
		}
		if player.PlayerStats.Success {
			for _, a := range player.PlayerStats.Achievements {
				unlocks[a.APIName] = struct {
					achieved   bool
					unlockTime int64
				}{a.Achieved == 1, a.UnlockTime}
			}
		}
	}

	result := make([]models.Achievement, 0, len(schema.Game.AvailableGameStats.Achievements))
	for _, a := range schema.Game.AvailableGameStats.Achievements {
		title := a.DisplayName
		if title == "" {
			title = a.Name
		}

		ach := models.Achievement{
			Title:       title,
			Description: a.Description,
			IconURL:     a.Icon,
			APIName:     a.Name,
		}
		if u, ok := unlocks[a.Name]; ok {
			ach.Unlocked = u.achieved
			if u.unlockTime > 0 {
				ach.Date = time.Unix(u.unlockTime, 0).Format("2006-01-02")
			}
		}
		result = append(result, ach)
	}
	return result, nil
}

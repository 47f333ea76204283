package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

type GameDetails struct {
	HoursPlayed *float64 `json:"hours_played"`
	Tags        []string `json:"tags"`
}

type appDetailsEntry struct {
	Success bool `json:"success"`
	Data    struct {
		Genres []struct {
			Description string `json:"description"`
		} `json:"genres"`
		Categories []struct {
			Description string `json:"description"`
		} `json:"categories"`
	} `json:"data"`
}

const (
	maxGenreTags    = 5
	maxCategoryTags = 3
	maxTags         = 5
)

// GetGameDetails returns the user's hours played for one app plus a handful
// of genre/category tags from the store page.
func (c *Client) GetGameDetails(ctx context.Context, appID int64) (*GameDetails, error) {
	details := &GameDetails{Tags: []string{}}

	if c.APIKey != "" && c.SteamID != "" {
		playtime, err := c.FetchLibraryPlaytime(ctx)
		if err != nil {
			return nil, err
		}
		if minutes, ok := playtime[appID]; ok && minutes > 0 {
			hours := math.Round(minutes/60*10) / 10
			details.HoursPlayed = &hours
		}
	}

	storeURL := fmt.Sprintf("%s/api/appdetails?appids=%d", c.StoreBase, appID)
	body, err := c.doGet(ctx, storeURL)
	if err != nil {
		return nil, err
	}

	var parsed map[string]appDetailsEntry
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceInvalidData, err)
	}

	entry, ok := parsed[fmt.Sprintf("%d", appID)]
	if !ok || !entry.Success {
		return details, nil
	}

	seen := map[string]bool{}
	for i, g := range entry.Data.Genres {
		if i >= maxGenreTags {
			break
		}
		if !seen[g.Description] {
			seen[g.Description] = true
			details.Tags = append(details.Tags, g.Description)
		}
	}
	for i, cat := range entry.Data.Categories {
		if i >= maxCategoryTags {
			break
		}
		if !seen[cat.Description] {
			seen[cat.Description] = true
			details.Tags = append(details.Tags, cat.Description)
		}
	}
	if len(details.Tags) > maxTags {
		details.Tags = details.Tags[:maxTags]
	}
	return details, nil
}

package steam

import (
	"context"
	"encoding/json"
	"fmt"
)

type ownedGamesResponse struct {
	Response struct {
		GameCount int `json:"game_count"`
		Games     []struct {
			AppID           int64 `json:"appid"`
			PlaytimeForever int64 `json:"playtime_forever"`
		} `json:"games"`
	} `json:"response"`
}

// FetchLibraryPlaytime returns cumulative playtime in minutes for every game
// in the configured user's library, keyed by Steam app ID. One batched call
// covers the whole library, which is what keeps the snapshot job inside the
// API rate limit.
func (c *Client) FetchLibraryPlaytime(ctx context.Context) (map[int64]float64, error) {
	if c.APIKey == "" || c.SteamID == "" {
		return nil, fmt.Errorf("%w: api key or steam id not configured", ErrSourceUnavailable)
	}

	url := fmt.Sprintf(
		"%s/IPlayerService/GetOwnedGames/v0001/?key=%s&steamid=%s&include_appinfo=1&include_played_free_games=1",
		c.APIBase, c.APIKey, c.SteamID,
	)

	body, err := c.doGet(ctx, url)
	if err != nil {
		return nil, err
	}

	var parsed ownedGamesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceInvalidData, err)
	}
	if parsed.Response.Games == nil {
		return nil, fmt.Errorf("%w: empty owned-games response", ErrSourceInvalidData)
	}

	playtime := make(map[int64]float64, len(parsed.Response.Games))
	for _, g := range parsed.Response.Games {
		playtime[g.AppID] = float64(g.PlaytimeForever)
	}
	return playtime, nil
}

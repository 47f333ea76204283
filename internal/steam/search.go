package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

type SearchResult struct {
	AppID        int64  `json:"id"`
	Name         string `json:"name"`
	CapsuleImage string `json:"capsule_image"`
}

type storeSearchResponse struct {
	Items []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"items"`
}

const maxSearchResults = 5

// SearchGames queries the storefront search and returns the top matches
// with a capsule header image for each.
func (c *Client) SearchGames(ctx context.Context, query string) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s/api/storesearch/?term=%s&l=english&cc=US",
		c.StoreBase, url.QueryEscape(query))

	body, err := c.doGet(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var parsed storeSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceInvalidData, err)
	}

	items := parsed.Items
	if len(items) > maxSearchResults {
		items = items[:maxSearchResults]
	}

	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, SearchResult{
			AppID: item.ID,
			Name:  item.Name,
			CapsuleImage: fmt.Sprintf(
				"https://cdn.cloudflare.steamstatic.com/steam/apps/%d/header.jpg", item.ID),
		})
	}
	return results, nil
}

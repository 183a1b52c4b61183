package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const DefaultGoogleSearchURL = "https://www.googleapis.com/customsearch/v1"

type GoogleSearchConfig struct {
	BaseURL   string
	APIKey    string
	EngineID  string
	PageSize  int
	UserAgent string
}

// GoogleSearch finds image links with the Custom Search JSON API.
type GoogleSearch struct {
	client *http.Client
	cfg    GoogleSearchConfig
}

type googleSearchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

func NewGoogleSearch(client *http.Client, cfg GoogleSearchConfig) *GoogleSearch {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGoogleSearchURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &GoogleSearch{
		client: client,
		cfg:    cfg,
	}
}

// SearchImages returns one page of image links for query, starting at the 1-based result offset start.
func (g *GoogleSearch) SearchImages(ctx context.Context, query string, start int) ([]string, error) {
	endpoint, err := url.Parse(g.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search url: %w", err)
	}
	params := endpoint.Query()
	params.Set("key", g.cfg.APIKey)
	params.Set("cx", g.cfg.EngineID)
	params.Set("q", query)
	params.Set("searchType", "image")
	params.Set("num", strconv.Itoa(g.cfg.PageSize))
	params.Set("start", strconv.Itoa(start))
	endpoint.RawQuery = params.Encode()

	body, err := get(ctx, g.client, endpoint.String(), g.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to search images: %w", err)
	}
	defer body.Close()

	var resp googleSearchResponse
	if err = json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	links := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	return links, nil
}

// internal/clients/outscraper/client.go

// Package outscraper is the client for the Outscraper Google Maps reviews
// API, used to harvest a fresh review batch for a search query.
package outscraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kyb-workers/internal/common/config"
	httpclient "kyb-workers/internal/common/http"
	"kyb-workers/internal/scoring/reviews"
)

// Client calls the maps/reviews-v3 endpoint synchronously.
type Client struct {
	http         *httpclient.Client
	baseURL      string
	apiKey       string
	reviewsLimit int
}

func NewClient(cfg config.OutscraperConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	limit := cfg.ReviewsLimit
	if limit <= 0 {
		limit = 60
	}
	return &Client{
		http:         httpclient.NewClient(timeout),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		reviewsLimit: limit,
	}
}

type reviewsResponse struct {
	Data []struct {
		Name        string           `json:"name"`
		PlaceID     string           `json:"place_id"`
		ReviewsData []reviews.Review `json:"reviews_data"`
	} `json:"data"`
}

// FetchByQuery harvests reviews for the first place matching query. limit
// overrides the configured per-place review cap when positive.
func (c *Client) FetchByQuery(ctx context.Context, query string, limit int) ([]reviews.Review, error) {
	if limit <= 0 {
		limit = c.reviewsLimit
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("reviewsLimit", strconv.Itoa(limit))
	params.Set("limit", "1")
	params.Set("sort", "newest")
	params.Set("language", "en")
	params.Set("async", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/maps/reviews-v3?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building outscraper request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling outscraper: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("outscraper returned %s", res.Status)
	}

	var parsed reviewsResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding outscraper response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, nil
	}
	return parsed.Data[0].ReviewsData, nil
}

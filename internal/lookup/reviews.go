// internal/lookup/reviews.go
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"kyb-workers/internal/scoring/reviews"
)

// ESReviewSource reads harvested review batches from the Elasticsearch
// index the harvester writes into.
type ESReviewSource struct {
	client *elasticsearch.Client
	index  string
}

func NewESReviewSource(client *elasticsearch.Client, index string) *ESReviewSource {
	return &ESReviewSource{client: client, index: index}
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			Source reviews.Review `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// FetchByBusiness returns the harvested reviews for one business id, newest
// first, up to limit.
func (s *ESReviewSource) FetchByBusiness(ctx context.Context, businessID string, limit int) ([]reviews.Review, error) {
	query := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"business_id": businessID,
			},
		},
		"sort": []map[string]interface{}{
			{"review_timestamp": map[string]string{"order": "desc"}},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("building review query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, fmt.Errorf("searching reviews for %s: %w", businessID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("review search for %s returned %s", businessID, res.Status())
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding review search response: %w", err)
	}

	batch := make([]reviews.Review, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		batch = append(batch, hit.Source)
	}
	return batch, nil
}

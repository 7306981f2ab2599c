// internal/workers/scoring/score-reviews/models.go
package scorereviews

import "kyb-workers/internal/scoring/reviews"

// Input carries the review batch to score. Exactly one source is used, in
// precedence order: inline reviews, then an Outscraper query, then a
// harvested business id.
type Input struct {
	Reviews      []reviews.Review `json:"reviews,omitempty"`
	Query        string           `json:"query,omitempty"`
	BusinessID   string           `json:"businessId,omitempty"`
	ReviewsLimit int              `json:"reviewsLimit,omitempty"`
}

// Summary aggregates the batch outcome for the process variables.
type Summary struct {
	Total        int     `json:"total"`
	Genuine      int     `json:"genuine"`
	Fake         int     `json:"fake"`
	AverageScore float64 `json:"averageScore"`
	AnyRecent    bool    `json:"anyRecent"`
}

type Output struct {
	RequestID string                 `json:"requestId"`
	Reviews   []reviews.ScoredReview `json:"reviews"`
	Summary   Summary                `json:"summary"`
}

// internal/workers/scoring/score-reviews/handler_test.go
package scorereviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	stderrors "kyb-workers/internal/common/errors"
	"kyb-workers/internal/common/logger"
	"kyb-workers/internal/common/validation"
	"kyb-workers/internal/scoring/reviews"
)

type stubHarvester struct {
	batch []reviews.Review
	err   error
	query string
}

func (s *stubHarvester) FetchByQuery(_ context.Context, query string, _ int) ([]reviews.Review, error) {
	s.query = query
	return s.batch, s.err
}

type stubBusinessSource struct {
	batch      []reviews.Review
	err        error
	businessID string
}

func (s *stubBusinessSource) FetchByBusiness(_ context.Context, businessID string, _ int) ([]reviews.Review, error) {
	s.businessID = businessID
	return s.batch, s.err
}

func newTestHandler(t *testing.T, harvester QueryHarvester, stored BusinessSource) *Handler {
	t.Helper()
	scorer := reviews.NewScorer(zaptest.NewLogger(t))
	return NewHandler(LoadConfig(), scorer, harvester, stored, logger.NewTestLogger(t))
}

func recentReview(text string) reviews.Review {
	return reviews.Review{Text: text, Timestamp: time.Now().Unix()}
}

func TestExecuteInlineBatch(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{Reviews: []reviews.Review{
		recentReview("I visited last week for a consultation and Dr Rao explained my diagnosis patiently. The waiting area was clean and I felt genuinely cared for, thank you!"),
		recentReview("Total fraud, avoid this scam clinic."),
	}})
	require.NoError(t, err)

	assert.NotEmpty(t, out.RequestID)
	assert.Len(t, out.Reviews, 2)
	assert.Equal(t, 2, out.Summary.Total)
	assert.Equal(t, 1, out.Summary.Genuine)
	assert.Equal(t, 1, out.Summary.Fake)
	assert.True(t, out.Summary.AnyRecent)
	assert.Positive(t, out.Reviews[0].Score)
	assert.Negative(t, out.Reviews[1].Score)
}

func TestExecuteQueryPath(t *testing.T) {
	harvester := &stubHarvester{batch: []reviews.Review{
		recentReview("My root canal appointment on Tuesday morning went smoothly and the nurse Priya checked on me twice afterwards."),
	}}
	h := newTestHandler(t, harvester, nil)

	out, err := h.Execute(context.Background(), &Input{Query: "Smile Dental Bangalore"})
	require.NoError(t, err)
	assert.Equal(t, "Smile Dental Bangalore", harvester.query)
	assert.Len(t, out.Reviews, 1)
}

func TestExecuteQueryFetchFailure(t *testing.T) {
	h := newTestHandler(t, &stubHarvester{err: assert.AnError}, nil)

	_, err := h.Execute(context.Background(), &Input{Query: "anything"})
	var se *stderrors.StandardError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stderrors.ErrCodeReviewFetchFailed, se.Code)
}

func TestExecuteBusinessPath(t *testing.T) {
	stored := &stubBusinessSource{batch: []reviews.Review{
		recentReview("The receptionist Anita booked my follow-up in minutes and the doctor remembered my prescription history. I appreciated that."),
	}}
	h := newTestHandler(t, nil, stored)

	out, err := h.Execute(context.Background(), &Input{BusinessID: "biz-123"})
	require.NoError(t, err)
	assert.Equal(t, "biz-123", stored.businessID)
	assert.Len(t, out.Reviews, 1)
}

func TestExecuteInlineBeatsQuery(t *testing.T) {
	harvester := &stubHarvester{}
	h := newTestHandler(t, harvester, nil)

	_, err := h.Execute(context.Background(), &Input{
		Reviews: []reviews.Review{recentReview("Inline batch wins over harvesting.")},
		Query:   "should not be used",
	})
	require.NoError(t, err)
	assert.Empty(t, harvester.query)
}

func TestExecuteNoSource(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	_, err := h.Execute(context.Background(), &Input{})
	var se *stderrors.StandardError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stderrors.ErrCodeInvalidInput, se.Code)
}

func TestInputSchema(t *testing.T) {
	assert.Error(t, validation.Validate(InputSchema, []byte(`{}`)))
	assert.Error(t, validation.Validate(InputSchema, []byte(`{"reviewsLimit": 10}`)))
	assert.NoError(t, validation.Validate(InputSchema, []byte(`{"query": "clinic"}`)))
	assert.NoError(t, validation.Validate(InputSchema, []byte(`{"reviews": []}`)))
	assert.NoError(t, validation.Validate(InputSchema, []byte(`{"businessId": "b1", "reviewsLimit": 5}`)))
}

func TestSummarizeEmptyBatch(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{Reviews: []reviews.Review{}, Query: "fallback"})
	// Empty inline slice falls through to the query path, which is not
	// configured here.
	var se *stderrors.StandardError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stderrors.ErrCodeReviewFetchFailed, se.Code)
	assert.Nil(t, out)
}

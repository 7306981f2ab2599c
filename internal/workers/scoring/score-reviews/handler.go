// internal/workers/scoring/score-reviews/handler.go
package scorereviews

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	stderrors "kyb-workers/internal/common/errors"
	"kyb-workers/internal/common/logger"
	"kyb-workers/internal/common/metrics"
	"kyb-workers/internal/common/validation"
	"kyb-workers/internal/scoring/reviews"
)

const (
	TaskType = "score-reviews"
)

// InputSchema rejects jobs that name no review source at all.
const InputSchema = `{
	"type": "object",
	"properties": {
		"reviews": {"type": "array"},
		"query": {"type": "string"},
		"businessId": {"type": "string"},
		"reviewsLimit": {"type": "integer", "minimum": 0}
	},
	"anyOf": [
		{"required": ["reviews"]},
		{"required": ["query"]},
		{"required": ["businessId"]}
	]
}`

// QueryHarvester fetches a fresh review batch for a maps search query.
type QueryHarvester interface {
	FetchByQuery(ctx context.Context, query string, limit int) ([]reviews.Review, error)
}

// BusinessSource reads previously harvested reviews for a business id.
type BusinessSource interface {
	FetchByBusiness(ctx context.Context, businessID string, limit int) ([]reviews.Review, error)
}

type Handler struct {
	config    *Config
	scorer    *reviews.Scorer
	harvester QueryHarvester
	stored    BusinessSource
	logger    logger.Logger
}

func NewHandler(config *Config, scorer *reviews.Scorer, harvester QueryHarvester, stored BusinessSource, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		scorer:    scorer,
		harvester: harvester,
		stored:    stored,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	if err := validation.Validate(InputSchema, []byte(job.Variables)); err != nil {
		h.failJob(client, job, string(stderrors.ErrCodeInvalidInput), err.Error())
		return
	}

	var in Input
	if err := json.Unmarshal([]byte(job.Variables), &in); err != nil {
		h.failJob(client, job, string(stderrors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &in)
	if err != nil {
		h.failJob(client, job, errorCode(err), err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	batch, err := h.resolveBatch(ctx, input)
	if err != nil {
		return nil, err
	}

	scored := h.scorer.ScoreBatch(batch)

	summary := summarize(scored)
	h.logger.Info("reviews scored", map[string]interface{}{
		"total":        summary.Total,
		"genuine":      summary.Genuine,
		"fake":         summary.Fake,
		"averageScore": summary.AverageScore,
	})

	return &Output{
		RequestID: uuid.New().String(),
		Reviews:   scored,
		Summary:   summary,
	}, nil
}

func (h *Handler) resolveBatch(ctx context.Context, input *Input) ([]reviews.Review, error) {
	switch {
	case len(input.Reviews) > 0:
		return input.Reviews, nil
	case input.Query != "":
		if h.harvester == nil {
			return nil, stderrors.New(stderrors.ErrCodeReviewFetchFailed,
				"review harvesting is not configured")
		}
		batch, err := h.harvester.FetchByQuery(ctx, input.Query, input.ReviewsLimit)
		if err != nil {
			return nil, stderrors.Wrap(stderrors.ErrCodeReviewFetchFailed,
				fmt.Sprintf("harvesting reviews for %q", input.Query), err)
		}
		return batch, nil
	case input.BusinessID != "":
		if h.stored == nil {
			return nil, stderrors.New(stderrors.ErrCodeReviewFetchFailed,
				"review storage is not configured")
		}
		limit := input.ReviewsLimit
		if limit <= 0 {
			limit = 60
		}
		batch, err := h.stored.FetchByBusiness(ctx, input.BusinessID, limit)
		if err != nil {
			return nil, stderrors.Wrap(stderrors.ErrCodeReviewFetchFailed,
				fmt.Sprintf("loading reviews for business %s", input.BusinessID), err)
		}
		return batch, nil
	default:
		return nil, stderrors.New(stderrors.ErrCodeInvalidInput,
			"one of reviews, query or businessId is required")
	}
}

func summarize(scored []reviews.ScoredReview) Summary {
	s := Summary{Total: len(scored)}
	if len(scored) == 0 {
		return s
	}
	sum := 0.0
	for _, r := range scored {
		sum += r.Score
		if r.Score > 0 {
			s.Genuine++
		} else {
			s.Fake++
		}
		if r.Factors.GlobalRecency {
			s.AnyRecent = true
		}
	}
	s.AverageScore = sum / float64(len(scored))
	return s
}

func errorCode(err error) string {
	if se, ok := err.(*stderrors.StandardError); ok {
		return string(se.Code)
	}
	return string(stderrors.ErrCodeReviewFetchFailed)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// Execute exposes the scoring path for tests and embedding callers.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// internal/workers/scoring/score-doctor/handler.go
package scoredoctor

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
	"kyb-workers/internal/lookup"
	"kyb-workers/internal/models"
	"kyb-workers/internal/scoring/engine"
)

const (
	TaskType = "score-doctor"
)

type Handler struct {
	config *Config
	engine *engine.Engine
	store  *lookup.Store
	logger logger.Logger
}

func NewHandler(config *Config, eng *engine.Engine, store *lookup.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: eng,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(stderrors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, errorCode(err), err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	rec, err := h.resolveRecord(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err := h.engine.ScoreDoctor(ctx, rec)
	if err != nil {
		return nil, err
	}

	h.logger.Info("doctor scored", map[string]interface{}{
		"source":       rec.Source,
		"recordId":     rec.RecordID,
		"totalScore":   result.TotalScore,
		"riskCategory": result.RiskCategory,
	})

	return &Output{RequestID: uuid.New().String(), Result: result}, nil
}

func (h *Handler) resolveRecord(ctx context.Context, input *Input) (models.SourceRecord, error) {
	if input.Record != nil {
		rec := *input.Record
		if rec.Source == "" {
			rec.Source = input.Source
		}
		return rec, nil
	}
	if input.Source == "" || input.RecordID == 0 {
		return models.SourceRecord{}, stderrors.New(stderrors.ErrCodeInvalidInput,
			"either record or {source, recordId} is required")
	}
	return h.store.FetchDoctor(ctx, input.Source, input.RecordID)
}

func errorCode(err error) string {
	if se, ok := err.(*stderrors.StandardError); ok {
		return string(se.Code)
	}
	return string(stderrors.ErrCodeQueryExecutionFailed)
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

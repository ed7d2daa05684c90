// internal/workers/profile/profile-merge/handler.go
package profilemerge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/common/metrics"
	"github.com/sorabhv/social-media-strategist/internal/common/observability"
	"github.com/sorabhv/social-media-strategist/internal/common/validation"
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/profile"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "profile-merge"
)

type Handler struct {
	config *Config
	store  *profile.Store
	logger logger.Logger
}

func NewHandler(config *Config, store *profile.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	start := time.Now()
	output, err := h.execute(ctx, &input)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	if err != nil {
		code := string(commonerrors.ErrCodeProfileWriteFailed)
		if stdErr, ok := err.(*commonerrors.StandardError); ok {
			code = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.failJob(client, job, code, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := observability.StartStage(ctx, TaskType, map[string]string{"profileId": input.ProfileID})
	defer span.End()

	if input.ProfileID == "" {
		return nil, commonerrors.NewInvalidProfileDeltaError("profileId is required")
	}

	switch input.Action {
	case ActionRead, "":
		return h.read(ctx, input.ProfileID)
	case ActionConfirm:
		return h.confirm(ctx, input.ProfileID)
	case ActionMerge:
		return h.merge(ctx, input)
	case ActionReplace:
		return h.replace(ctx, input)
	default:
		return nil, commonerrors.NewInvalidProfileDeltaError(fmt.Sprintf("unknown action: %s", input.Action))
	}
}

// read fetches the stored profile. Existing profiles come back in
// awaiting_confirmation so the workflow presents them before reuse.
func (h *Handler) read(ctx context.Context, id string) (*Output, error) {
	p, err := h.store.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	state := StateAwaitingConfirmation
	if p.IsEmpty() {
		state = StateConfirmed
	}

	return &Output{
		ProfileID: id,
		State:     state,
		Profile:   p,
		IsNew:     p.IsEmpty(),
	}, nil
}

// confirm accepts the stored profile as-is.
func (h *Handler) confirm(ctx context.Context, id string) (*Output, error) {
	p, err := h.store.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Output{
		ProfileID: id,
		State:     StateConfirmed,
		Profile:   p,
	}, nil
}

func (h *Handler) merge(ctx context.Context, input *Input) (*Output, error) {
	delta, err := h.parseDelta(input.Delta)
	if err != nil {
		return nil, err
	}
	if delta.IsEmpty() {
		return h.confirm(ctx, input.ProfileID)
	}

	merged, err := h.store.Merge(ctx, input.ProfileID, delta, input.ExpectedLastUpdated)
	if err != nil {
		return nil, err
	}

	h.logger.Info("profile merged", map[string]interface{}{
		"profileId":   input.ProfileID,
		"lastUpdated": *merged.LastUpdated,
	})

	return &Output{
		ProfileID: input.ProfileID,
		State:     StateConfirmed,
		Profile:   merged,
	}, nil
}

// replace overwrites the stored profile with the delta as a full document.
// Used when the caller says the stored profile is a different business.
func (h *Handler) replace(ctx context.Context, input *Input) (*Output, error) {
	delta, err := h.parseDelta(input.Delta)
	if err != nil {
		return nil, err
	}

	replaced, err := h.store.Replace(ctx, input.ProfileID, delta.Apply(models.BusinessProfile{}))
	if err != nil {
		return nil, err
	}

	h.logger.Info("profile replaced", map[string]interface{}{
		"profileId": input.ProfileID,
	})

	return &Output{
		ProfileID: input.ProfileID,
		State:     StateReplaced,
		Profile:   replaced,
	}, nil
}

// parseDelta runs the schema check on the raw document before the typed
// unmarshal, so unknown fields fail loudly instead of being dropped.
func (h *Handler) parseDelta(raw json.RawMessage) (models.ProfileDelta, error) {
	if len(raw) == 0 {
		return models.ProfileDelta{}, commonerrors.NewInvalidProfileDeltaError("delta is required")
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.ProfileDelta{}, commonerrors.NewInvalidProfileDeltaError(err.Error())
	}
	if err := validation.ValidateProfileDelta(doc); err != nil {
		return models.ProfileDelta{}, commonerrors.NewInvalidProfileDeltaError(err.Error())
	}

	var delta models.ProfileDelta
	if err := json.Unmarshal(raw, &delta); err != nil {
		return models.ProfileDelta{}, commonerrors.NewInvalidProfileDeltaError(err.Error())
	}
	return delta, nil
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
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
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

// Execute runs the profile stage directly, outside a Zeebe job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

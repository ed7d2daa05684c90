// internal/workers/planning/build-content-plan/handler.go
package buildcontentplan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/common/metrics"
	"github.com/sorabhv/social-media-strategist/internal/common/observability"
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/schedule"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "build-content-plan"
)

type Handler struct {
	config      *Config
	scheduleRef *schedule.Reference
	logger      logger.Logger
}

func NewHandler(config *Config, scheduleRef *schedule.Reference, log logger.Logger) *Handler {
	return &Handler{
		config:      config,
		scheduleRef: scheduleRef,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		code := string(commonerrors.ErrCodePlanBuildFailed)
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
	ctx, span := observability.StartStage(ctx, TaskType, map[string]string{"runId": input.RunID})
	defer span.End()

	if len(input.Shortlist) == 0 {
		return nil, commonerrors.NewBusinessRuleError(
			"cannot build a content plan from an empty shortlist",
			fmt.Sprintf("runId=%s businessType=%s", input.RunID, input.BusinessType))
	}

	seeds := selectSeeds(input.Shortlist, h.config.SeedCount)
	concepts := buildConcepts(seeds, input.Shortlist, input.Niche)
	calendar := buildCalendar(concepts, input.Niche, input.Profile, h.scheduleRef)

	synthesized := h.ensureTips(calendar)

	h.logger.Info("content plan built", map[string]interface{}{
		"runId":           input.RunID,
		"concepts":        len(concepts),
		"days":            len(calendar),
		"tipsSynthesized": synthesized,
	})

	return &Output{
		RunID:           input.RunID,
		BusinessType:    input.BusinessType,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Concepts:        concepts,
		Calendar:        calendar,
		TipsSynthesized: synthesized,
	}, nil
}

// ensureTips repairs any day whose tip map does not cover its platforms.
// Every listed platform must carry a tip, so a plan never ships with a gap;
// repairs are logged and counted rather than failed.
func (h *Handler) ensureTips(calendar []models.ContentPlanDay) int {
	synthesized := 0
	for i := range calendar {
		day := &calendar[i]
		if day.PlatformTips == nil {
			day.PlatformTips = make(map[string]string, len(day.Platforms))
		}
		for _, platform := range day.Platforms {
			if tip, ok := day.PlatformTips[platform]; ok && tip != "" {
				continue
			}
			h.logger.Warn("filling missing platform tip", map[string]interface{}{
				"errorCode": string(commonerrors.ErrCodeIncompletePlanTip),
				"day":       day.Day,
				"platform":  platform,
			})
			day.PlatformTips[platform] = h.scheduleRef.DefaultTip(platform)
			synthesized++
		}
	}
	return synthesized
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

// Execute runs the plan-building stage directly, outside a Zeebe job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

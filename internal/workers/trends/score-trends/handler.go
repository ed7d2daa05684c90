// internal/workers/trends/score-trends/handler.go
package scoretrends

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/common/metrics"
	"github.com/sorabhv/social-media-strategist/internal/common/observability"
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-trends"
)

type Handler struct {
	config   *Config
	reranker Reranker
	logger   logger.Logger
}

// NewHandler wires the optional reranker. reranker may be nil; scoring is
// then purely deterministic.
func NewHandler(config *Config, reranker Reranker, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		reranker: reranker,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		code := "SCORING_FAILED"
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

	n := input.Niche
	if n.Weights == (niche.Weights{}) {
		n.Weights = niche.DefaultWeights
	}
	if math.Abs(n.Weights.Sum()-1.0) > 1e-9 {
		return nil, commonerrors.NewInvalidWeightsError(input.BusinessType, n.Weights.Sum())
	}

	var exclusions []string
	if input.Profile != nil && input.Profile.ContentPreferences != nil {
		exclusions = parseExclusions(*input.Profile.ContentPreferences)
	}

	scored := make([]models.ScoredSignal, 0, len(input.Signals))
	excluded := 0
	for _, s := range input.Signals {
		// Hard filter: an excluded topic never reaches the shortlist
		if matchesExclusion(s, exclusions) {
			excluded++
			continue
		}
		scored = append(scored, models.ScoredSignal{
			Signal: s,
			Scores: scoreSignal(s, n),
		})
	}

	exclusionFallback := false
	if len(scored) == 0 && excluded > 0 {
		// Everything the profile excluded was everything we had. An empty
		// plan helps nobody, so fall back to the unfiltered ranking and say
		// so.
		h.logger.Warn("exclusions removed every signal, using unfiltered ranking", map[string]interface{}{
			"runId":    input.RunID,
			"excluded": excluded,
		})
		exclusionFallback = true
		for _, s := range input.Signals {
			scored = append(scored, models.ScoredSignal{
				Signal: s,
				Scores: scoreSignal(s, n),
			})
		}
	}

	orderShortlist(scored)

	topK := input.TopK
	if topK <= 0 {
		topK = h.config.TopK
	}
	if len(scored) > topK {
		scored = scored[:topK]
	}

	h.applyRerank(ctx, input.BusinessType, scored)

	for i := range scored {
		scored[i].ShortlistRank = i + 1
	}

	h.logger.Info("scoring complete", map[string]interface{}{
		"runId":       input.RunID,
		"scored":      len(input.Signals),
		"excluded":    excluded,
		"shortlisted": len(scored),
	})

	return &Output{
		RunID:             input.RunID,
		BusinessType:      input.BusinessType,
		Country:           input.Country,
		Niche:             n,
		Summary:           input.Summary,
		Shortlist:         scored,
		TotalScored:       len(input.Signals),
		Excluded:          excluded,
		ExclusionFallback: exclusionFallback,
	}, nil
}

// applyRerank runs the bounded LLM pass. The deterministic order survives
// untouched on any failure, unknown ID, or out-of-band adjustment; a valid
// response may only reorder entries within RerankBand of their composite.
func (h *Handler) applyRerank(ctx context.Context, businessType string, shortlist []models.ScoredSignal) {
	if h.reranker == nil || len(shortlist) == 0 {
		return
	}

	if h.config.GenAITimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.GenAITimeout)
		defer cancel()
	}

	adjustments, err := h.reranker.Rerank(ctx, businessType, shortlist)
	if err != nil {
		rerankErr := commonerrors.NewLLMRerankFailedError(err)
		h.logger.Warn("LLM re-rank failed, keeping deterministic order", map[string]interface{}{
			"errorCode": string(rerankErr.Code),
			"error":     err.Error(),
		})
		return
	}

	known := make(map[string]int, len(shortlist))
	for i, s := range shortlist {
		known[s.ID] = i
	}

	adjusted := make(map[string]float64, len(adjustments))
	angles := make(map[string]string, len(adjustments))
	for _, adj := range adjustments {
		idx, ok := known[adj.ID]
		if !ok {
			h.logger.Warn("LLM re-rank returned unknown signal, discarding pass", map[string]interface{}{
				"signalId": adj.ID,
			})
			return
		}
		if math.Abs(adj.Adjustment) > h.config.RerankBand {
			h.logger.Warn("LLM re-rank adjustment outside band, discarding pass", map[string]interface{}{
				"signalId":   adj.ID,
				"adjustment": adj.Adjustment,
				"band":       h.config.RerankBand,
			})
			return
		}
		adjusted[adj.ID] = shortlist[idx].Scores.Composite + adj.Adjustment
		angles[adj.ID] = adj.SuggestedAngle
	}

	// Reorder by adjusted composite; the stored scores stay the pure
	// deterministic values.
	sort.SliceStable(shortlist, func(i, j int) bool {
		return adjustedComposite(shortlist[i], adjusted) > adjustedComposite(shortlist[j], adjusted)
	})

	for i := range shortlist {
		if angle, ok := angles[shortlist[i].ID]; ok && angle != "" {
			shortlist[i].SuggestedAngle = angle
		}
	}
}

func adjustedComposite(s models.ScoredSignal, adjusted map[string]float64) float64 {
	if v, ok := adjusted[s.ID]; ok {
		return v
	}
	return s.Scores.Composite
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

// Execute runs the scoring stage directly, outside a Zeebe job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

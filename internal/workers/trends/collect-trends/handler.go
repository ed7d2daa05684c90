// internal/workers/trends/collect-trends/handler.go
package collecttrends

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/common/metrics"
	"github.com/sorabhv/social-media-strategist/internal/common/observability"
	"github.com/sorabhv/social-media-strategist/internal/common/validation"
	"github.com/sorabhv/social-media-strategist/internal/connectors"
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "collect-trends"
)

// Archiver indexes one document into the signal audit archive.
type Archiver interface {
	Index(ctx context.Context, index, docID string, body []byte) error
}

type Handler struct {
	config     *Config
	connectors []connectors.Connector
	niches     *niche.Mapping
	archive    Archiver
	logger     logger.Logger
}

// NewHandler wires the connectors and audit archive. archive may be nil.
func NewHandler(config *Config, conns []connectors.Connector, niches *niche.Mapping, archive Archiver, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		connectors: conns,
		niches:     niches,
		archive:    archive,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}
	if err := validation.ValidateCollectRequest(raw); err != nil {
		h.failJob(client, job, "PARSE_ERROR", err.Error())
		return
	}

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
		code := "COLLECT_FAILED"
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
	ctx, span := observability.StartStage(ctx, TaskType, map[string]string{"businessType": input.BusinessType})
	defer span.End()

	n, ok := h.niches.Get(input.BusinessType)
	if !ok {
		return nil, commonerrors.NewInvalidBusinessTypeError(input.BusinessType, h.niches.Types())
	}

	country := input.Country
	if country == "" {
		country = "US"
	}

	query := connectors.Query{
		BusinessType: input.BusinessType,
		Country:      country,
		Keywords:     append(append([]string(nil), n.TrendsKeywords...), input.Keywords...),
		Subreddits:   n.Subreddits,
		HashtagSeeds: n.HashtagSeeds,
	}

	type fetchResult struct {
		source  string
		signals []models.Signal
		err     error
	}

	results := make([]fetchResult, len(h.connectors))
	var wg sync.WaitGroup
	for i, conn := range h.connectors {
		wg.Add(1)
		go func(i int, conn connectors.Connector) {
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, h.config.SourceTimeout)
			defer cancel()

			fetchStart := time.Now()
			signals, err := conn.Fetch(cctx, query)
			metrics.SourceFetchDuration.WithLabelValues(conn.Name()).Observe(time.Since(fetchStart).Seconds())

			results[i] = fetchResult{source: conn.Name(), signals: signals, err: err}
		}(i, conn)
	}
	// Join barrier: every connector attempt finishes before aggregation,
	// successful or not.
	wg.Wait()

	summary := models.SourceSummary{
		Sources: make(map[string]models.SourceOutcome, len(results)),
		ByType:  make(map[string]int),
	}

	var all []models.Signal
	for _, r := range results {
		outcome := models.SourceOutcome{Attempted: true}
		if r.err != nil {
			outcome.Error = r.err.Error()
			metrics.SourceFetchTotal.WithLabelValues(r.source, "failure").Inc()
			h.logger.Warn("source fetch failed", map[string]interface{}{
				"source": r.source,
				"error":  r.err.Error(),
			})
		} else {
			outcome.Succeeded = true
			outcome.Count = len(r.signals)
			metrics.SourceFetchTotal.WithLabelValues(r.source, "success").Inc()
			metrics.SourceSignalsCollected.WithLabelValues(r.source).Add(float64(len(r.signals)))
			all = append(all, r.signals...)
		}
		summary.Sources[r.source] = outcome
	}

	if summary.SucceededCount() == 0 {
		return nil, commonerrors.NewNoSignalsCollectedError(summary.AttemptedSources())
	}

	deduped := deduplicate(all)
	summary.Total = len(deduped)
	summary.Deduped = len(all) - len(deduped)
	for _, s := range deduped {
		summary.ByType[s.Type]++
	}

	runID := input.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	h.archiveSignals(ctx, runID, deduped)

	h.logger.Info("collection complete", map[string]interface{}{
		"runId":            runID,
		"businessType":     input.BusinessType,
		"signals":          len(deduped),
		"sourcesSucceeded": summary.SucceededCount(),
		"sourcesAttempted": len(results),
	})

	return &Output{
		RunID:        runID,
		BusinessType: input.BusinessType,
		Country:      country,
		CollectedAt:  time.Now().UTC().Format(time.RFC3339),
		Niche:        n,
		Summary:      summary,
		Signals:      deduped,
	}, nil
}

// deduplicate keeps the first occurrence of each signal ID. IDs embed the
// source, so cross-source collisions cannot merge distinct signals.
func deduplicate(signals []models.Signal) []models.Signal {
	seen := make(map[string]struct{}, len(signals))
	unique := make([]models.Signal, 0, len(signals))
	for _, s := range signals {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		unique = append(unique, s)
	}
	return unique
}

// archiveSignals writes each signal to the audit archive. Best effort: the
// run proceeds regardless, failures are logged.
func (h *Handler) archiveSignals(ctx context.Context, runID string, signals []models.Signal) {
	if h.archive == nil {
		return
	}

	failures := 0
	for _, s := range signals {
		doc, err := json.Marshal(struct {
			RunID string `json:"run_id"`
			models.Signal
		}{RunID: runID, Signal: s})
		if err != nil {
			failures++
			continue
		}
		if err := h.archive.Index(ctx, h.config.ArchiveIndex, runID+"_"+s.ID, doc); err != nil {
			failures++
		}
	}

	if failures > 0 {
		archiveErr := commonerrors.NewArchiveIndexFailedError(fmt.Errorf("%d of %d documents failed", failures, len(signals)))
		h.logger.Warn("audit archive partially failed", map[string]interface{}{
			"runId":     runID,
			"failures":  failures,
			"total":     len(signals),
			"errorCode": string(archiveErr.Code),
		})
	}
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

// Execute runs the collection stage directly, outside a Zeebe job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

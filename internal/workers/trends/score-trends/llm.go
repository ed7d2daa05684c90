// internal/workers/trends/score-trends/llm.go
package scoretrends

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sorabhv/social-media-strategist/internal/models"
)

var (
	ErrLLMTimeout      = errors.New("LLM_TIMEOUT")
	ErrLLMRerankFailed = errors.New("LLM_RERANK_FAILED")
)

// RerankAdjustment is one per-signal qualitative adjustment from the LLM.
type RerankAdjustment struct {
	ID             string  `json:"id"`
	Adjustment     float64 `json:"adjustment"`
	SuggestedAngle string  `json:"suggested_angle,omitempty"`
}

// Reranker asks an external model to nudge the shortlist ordering.
type Reranker interface {
	Rerank(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error)
}

// GenAIReranker calls the configured GenAI endpoint.
type GenAIReranker struct {
	baseURL    string
	apiKey     string
	maxRetries int
	client     *http.Client
}

func NewGenAIReranker(baseURL, apiKey string, maxRetries int) *GenAIReranker {
	return &GenAIReranker{
		baseURL:    baseURL,
		apiKey:     apiKey,
		maxRetries: maxRetries,
		// No client timeout, the caller's context bounds the call
		client: &http.Client{},
	}
}

type rerankRequest struct {
	BusinessType string              `json:"business_type"`
	Signals      []rerankSignalInput `json:"signals"`
}

type rerankSignalInput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	Trajectory  string  `json:"trajectory,omitempty"`
	Composite   float64 `json:"composite"`
}

func (r *GenAIReranker) Rerank(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error) {
	payload := rerankRequest{BusinessType: businessType}
	for _, s := range shortlist {
		payload.Signals = append(payload.Signals, rerankSignalInput{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Type:        s.Type,
			Trajectory:  s.Trajectory,
			Composite:   s.Scores.Composite,
		})
	}

	body, _ := json.Marshal(payload)

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrLLMTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/ai/rerank", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLLMRerankFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if r.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+r.apiKey)
		}

		resp, lastErr = r.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return nil, ErrLLMTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrLLMTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrLLMRerankFailed, lastErr)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Adjustments []RerankAdjustment `json:"adjustments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrLLMRerankFailed, err)
	}

	return apiResponse.Adjustments, nil
}

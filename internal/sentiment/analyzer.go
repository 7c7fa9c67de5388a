// Package sentiment scores post content against an external analysis API.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ovra/internal/observability"
)

const (
	// NeutralScore is reported when analysis is unavailable or fails.
	NeutralScore = 3
	// NeutralConfidence accompanies NeutralScore fallbacks.
	NeutralConfidence = 0

	requestTimeout = 10 * time.Second
)

// Result is a sentiment score on a 1..5 scale with a 0..100 confidence.
type Result struct {
	Score      int `json:"score"`
	Confidence int `json:"confidence"`
}

// Analyzer calls a remote sentiment API over HTTP. A zero-value URL disables
// analysis and every call returns the neutral fallback.
type Analyzer struct {
	url    string
	apiKey string
	client *http.Client
}

// New returns an Analyzer for the given endpoint. An empty url disables it.
func New(url, apiKey string) *Analyzer {
	return &Analyzer{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Enabled reports whether an endpoint is configured.
func (a *Analyzer) Enabled() bool {
	return a.url != ""
}

type apiRequest struct {
	Text string `json:"text"`
}

// Analyze scores the given content. It never returns an error to the caller's
// write path: on any failure it reports the neutral fallback and a non-nil
// error for logging.
func (a *Analyzer) Analyze(ctx context.Context, content string) (Result, error) {
	if !a.Enabled() {
		observability.SentimentRequests.WithLabelValues("disabled").Inc()
		return Result{Score: NeutralScore, Confidence: NeutralConfidence}, nil
	}

	body, err := json.Marshal(apiRequest{Text: content})
	if err != nil {
		observability.SentimentRequests.WithLabelValues("error").Inc()
		return Result{Score: NeutralScore, Confidence: NeutralConfidence}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		observability.SentimentRequests.WithLabelValues("error").Inc()
		return Result{Score: NeutralScore, Confidence: NeutralConfidence}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		observability.SentimentRequests.WithLabelValues("error").Inc()
		return Result{Score: NeutralScore, Confidence: NeutralConfidence}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.SentimentRequests.WithLabelValues("error").Inc()
		return Result{Score: NeutralScore, Confidence: NeutralConfidence},
			fmt.Errorf("sentiment API returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		observability.SentimentRequests.WithLabelValues("error").Inc()
		return Result{Score: NeutralScore, Confidence: NeutralConfidence}, err
	}

	observability.SentimentRequests.WithLabelValues("success").Inc()
	return clamp(result), nil
}

// clamp forces the API response into the documented ranges.
func clamp(r Result) Result {
	if r.Score < 1 {
		r.Score = 1
	}
	if r.Score > 5 {
		r.Score = 5
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 100 {
		r.Confidence = 100
	}
	return r
}

// Package ai wraps the external generative-text service behind two
// operations: summarizing the current health snapshot and answering a
// free-text operational question with the snapshot as context. The
// service is an opaque text-in/text-out boundary; every failure —
// missing credential, transport error, empty response — degrades to a
// fixed user-facing string and never surfaces as a raw error.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Fixed user-facing strings returned when the service is unavailable.
const (
	missingKeyNotice = "Please configure your API Key in the source code or environment variables to use AI features."
	analysisFallback = "Failed to generate AI analysis. Please check your API key and connection."
	askFallback      = "Error communicating with AI service."
	noAnalysis       = "No analysis generated."
	noAnswer         = "I couldn't understand that."
)

// DefaultBaseURL is the production endpoint of the generative service.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// SnapshotFunc supplies the health snapshot used as prompt context.
type SnapshotFunc func() (string, error)

// Gateway is the adapter around the generative-text API. Calls are
// independent: nothing is queued, de-duplicated, or cancelled on behalf
// of another call.
type Gateway struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	snapshot SnapshotFunc
	log      *zap.SugaredLogger
}

// NewGateway creates a gateway against the production endpoint.
// An empty apiKey disables the gateway; both operations then return the
// configuration notice.
func NewGateway(apiKey, model string, snapshot SnapshotFunc, log *zap.SugaredLogger) *Gateway {
	return NewGatewayWithBaseURL(apiKey, model, DefaultBaseURL, snapshot, log)
}

// NewGatewayWithBaseURL creates a gateway against a custom endpoint,
// used by tests to point at a stub server.
func NewGatewayWithBaseURL(apiKey, model, baseURL string, snapshot SnapshotFunc, log *zap.SugaredLogger) *Gateway {
	return &Gateway{
		apiKey:   apiKey,
		model:    model,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		snapshot: snapshot,
		log:      log,
	}
}

// Enabled reports whether a credential is configured.
func (g *Gateway) Enabled() bool {
	return g.apiKey != ""
}

// SummarizeHealth asks the service for an executive summary of the
// current health snapshot. The result is always presentable text.
func (g *Gateway) SummarizeHealth(ctx context.Context) string {
	if !g.Enabled() {
		return missingKeyNotice
	}

	snapshot, err := g.snapshot()
	if err != nil {
		g.log.Warnw("health snapshot failed", "error", err)
		return analysisFallback
	}

	prompt := fmt.Sprintf(`You are a Senior DevOps Engineer for a VPN Service Provider.
Analyze the following system JSON status report.
Provide a professional, concise executive summary of the current infrastructure health.
Highlight any critical issues, potential optimizations, and security recommendations.
Format the output with Markdown.

System Data:
%s`, snapshot)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		g.log.Warnw("analysis request failed", "error", err)
		return analysisFallback
	}
	if text == "" {
		return noAnalysis
	}
	return text
}

// Ask answers a free-text operational question with the health snapshot
// as context. The result is always presentable text.
func (g *Gateway) Ask(ctx context.Context, question string) string {
	if !g.Enabled() {
		return missingKeyNotice
	}

	snapshot, err := g.snapshot()
	if err != nil {
		g.log.Warnw("health snapshot failed", "error", err)
		return askFallback
	}

	prompt := fmt.Sprintf(`Context: VPN Admin Panel System Data: %s

User Question: %s

Answer as a helpful assistant. Keep it brief.`, snapshot, question)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		g.log.Warnw("assistant request failed", "error", err)
		return askFallback
	}
	if text == "" {
		return noAnswer
	}
	return text
}

// generateRequest is the wire shape of a generateContent call.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the subset of the reply the gateway reads.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate performs one generateContent call and extracts the first
// candidate's text.
func (g *Gateway) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("service returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var decoded generateResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("malformed service response: %w", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

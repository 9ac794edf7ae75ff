package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
)

const (
	providerAnalyzer = "analyzer"

	// maxResponseBytes caps how much of an analyzer reply is read.
	maxResponseBytes = 1 << 20
)

// AnalyzerClient calls the analyzer service's POST /translate endpoint.
type AnalyzerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAnalyzerClient creates a client for the analyzer at baseURL.
func NewAnalyzerClient(baseURL string, timeout time.Duration) *AnalyzerClient {
	return &AnalyzerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzerRequest struct {
	Text string `json:"text"`
}

type analyzerResponse struct {
	Result string   `json:"result"`
	Data   []string `json:"data"`
}

// Provider returns "analyzer".
func (c *AnalyzerClient) Provider() string {
	return providerAnalyzer
}

// Translate posts text and returns the "result" field, falling back to
// data[0] when result is absent.
func (c *AnalyzerClient) Translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(analyzerRequest{Text: text})
	if err != nil {
		return "", c.fail(0, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", c.fail(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.fail(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", c.fail(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var decoded analyzerResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", c.fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	result := strings.TrimSpace(decoded.Result)
	if result == "" && len(decoded.Data) > 0 {
		result = strings.TrimSpace(decoded.Data[0])
	}
	if result == "" {
		return "", c.fail(resp.StatusCode, errors.New("empty result"))
	}
	return result, nil
}

func (c *AnalyzerClient) fail(status int, err error) error {
	return domerrors.NewTranslationError(providerAnalyzer, status, err)
}

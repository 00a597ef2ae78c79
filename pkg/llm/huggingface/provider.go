package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"smart-notes-be/pkg/digest"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co"
	DefaultModel   = "facebook/bart-large-cnn"

	maxErrorBody = 512
)

var (
	ErrMissingAPIKey = errors.New("huggingface api key is not configured")
	ErrEmptySummary  = errors.New("empty summary from huggingface api")
)

// Ensure SummarizationClient implements digest.RemoteSummarizer
var _ digest.RemoteSummarizer = &SummarizationClient{}

// SummarizationClient calls the HuggingFace inference API for a summarization model.
type SummarizationClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type summarizeParameters struct {
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
}

type summarizeRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters summarizeParameters `json:"parameters"`
}

type summarizeResult struct {
	SummaryText string `json:"summary_text"`
}

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("huggingface api error (status %d): %s", e.StatusCode, e.Body)
}

func NewSummarizationClient(apiKey, baseURL, model string, httpClient *http.Client) *SummarizationClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &SummarizationClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  httpClient,
	}
}

// Summarize sends text to the model and returns the first summary_text of the response.
// The deadline of ctx bounds the whole exchange.
func (p *SummarizationClient) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if p.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := summarizeRequest{
		Inputs: text,
		Parameters: summarizeParameters{
			MinLength: minLength,
			MaxLength: maxLength,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := string(bodyBytes)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var results []summarizeResult
	if err := json.Unmarshal(bodyBytes, &results); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(results) == 0 || strings.TrimSpace(results[0].SummaryText) == "" {
		return "", ErrEmptySummary
	}

	return results[0].SummaryText, nil
}

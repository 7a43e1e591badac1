package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/quocvuong92/x-cli/internal/config"
	"github.com/quocvuong92/x-cli/internal/constants"
	"github.com/quocvuong92/x-cli/internal/logging"
)

// ErrNoChoices is returned when the provider answers without any choice
var ErrNoChoices = errors.New("completion returned no choices")

// CompletionRequest represents the Completions API request
type CompletionRequest struct {
	Model            string   `json:"model"`
	Prompt           string   `json:"prompt"`
	Temperature      float64  `json:"temperature"`
	MaxTokens        int      `json:"max_tokens"`
	TopP             float64  `json:"top_p"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	PresencePenalty  float64  `json:"presence_penalty"`
	Stop             []string `json:"stop"`
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice represents a completion choice
type Choice struct {
	Text         string `json:"text"`
	Index        int    `json:"index"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// CompletionResponse represents the API response
type CompletionResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Text returns the first choice's text
func (r *CompletionResponse) Text() (string, error) {
	if len(r.Choices) == 0 {
		return "", ErrNoChoices
	}
	return r.Choices[0].Text, nil
}

// ErrorResponse is the provider's error body
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// APIError represents an error with status code
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// CompletionClient calls the Completions endpoint over resty
type CompletionClient struct {
	httpClient *resty.Client
	url        string
	model      string
	logger     *logging.Logger
}

// NewCompletionClient creates a new completion client
func NewCompletionClient(cfg *config.Config, token string, logger *logging.Logger) *CompletionClient {
	client := resty.New().
		SetTimeout(constants.DefaultAPITimeout).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json")
	logging.NewHTTPLogger(logger).Attach(client)

	return &CompletionClient{
		httpClient: client,
		url:        cfg.CompletionsURL(),
		model:      cfg.Model,
		logger:     logger,
	}
}

// newRequest builds the fixed sampling parameters around prompt
func (c *CompletionClient) newRequest(prompt string) CompletionRequest {
	return CompletionRequest{
		Model:            c.model,
		Prompt:           prompt,
		Temperature:      0,
		MaxTokens:        constants.CompletionMaxTokens,
		TopP:             1,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		Stop:             []string{constants.CompletionStop},
	}
}

// Complete sends prompt and returns the first choice's text unmodified
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	var result CompletionResponse
	var errResp ErrorResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(c.newRequest(prompt)).
		SetResult(&result).
		SetError(&errResp).
		ForceContentType("application/json").
		Post(c.url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if resp == nil || resp.RawResponse == nil {
			return "", fmt.Errorf("failed to send request: %w", err)
		}
		// Received but undecodable; an error status still wins below
		if !resp.IsError() {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
	}

	if resp.IsError() {
		errMsg := fmt.Sprintf("status code %d", resp.StatusCode())
		if errResp.Error.Message != "" {
			errMsg = errResp.Error.Message
		}
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("completion API error: %s", errMsg),
		}
	}

	text, err := result.Text()
	if err != nil {
		return "", err
	}

	c.logger.Debug("completion received", logging.Fields{
		"id":                result.ID,
		"finish_reason":     result.Choices[0].FinishReason,
		"completion_tokens": result.Usage.CompletionTokens,
	})
	return text, nil
}

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
	"github.com/jharkhand-yatra/tourassist/internal/pkg/config"
	"github.com/jharkhand-yatra/tourassist/internal/pkg/resilience"
)

// openAICompatProvider speaks the OpenAI Chat Completions wire format.
// OpenAI, DeepSeek and Grok all expose this format; they differ only in
// base URL, model name and API key.
type openAICompatProvider struct {
	name    string
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	retry   resilience.RetryConfig
	logger  *zap.Logger
}

func newOpenAICompatProvider(name string, cfg config.ProviderConfig, client *http.Client, logger *zap.Logger) *openAICompatProvider {
	return &openAICompatProvider{
		name:    name,
		client:  client,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		retry:   resilience.DefaultRetryConfig(),
		logger:  logger,
	}
}

func (p *openAICompatProvider) Name() string { return p.name }

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// statusError marks an HTTP-level failure so the retry predicate can tell
// transient 5xx responses apart from everything else.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.code, e.body)
}

func isTransient(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code >= http.StatusInternalServerError
}

// Generate calls the backend once (retrying bounded times on 5xx) and
// normalizes the result. All failure modes come back as errors; the fan-out
// invoker absorbs them into failed slots.
func (p *openAICompatProvider) Generate(ctx context.Context, message, language string) (models.Candidate, error) {
	var candidate models.Candidate

	err := resilience.Retry(ctx, p.retry, isTransient, func(ctx context.Context) error {
		c, err := p.generate(ctx, message, language)
		if err != nil {
			return err
		}
		candidate = c
		return nil
	})
	if err != nil {
		return models.Candidate{}, fmt.Errorf("%s: %w", p.name, err)
	}
	return candidate, nil
}

func (p *openAICompatProvider) generate(ctx context.Context, message, language string) (models.Candidate, error) {
	body := chatCompletionRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(language)},
			{Role: "user", Content: message},
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return models.Candidate{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return models.Candidate{}, &statusError{code: httpResp.StatusCode, body: string(respBody)}
	}

	var resp chatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return models.Candidate{}, fmt.Errorf("decode response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return models.Candidate{}, models.ErrMalformedResponse
	}

	choice := resp.Choices[0]
	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return models.Candidate{}, models.ErrEmptyCompletion
	}

	confidence := confidenceTruncated
	if choice.FinishReason == "stop" {
		confidence = confidenceNaturalStop
	}

	return models.Candidate{
		Text:       choice.Message.Content,
		Confidence: confidence,
		Provider:   p.name,
	}, nil
}

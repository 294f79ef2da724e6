package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
	"github.com/jharkhand-yatra/tourassist/internal/pkg/config"
)

// geminiProvider talks to the Gemini API through the official genai SDK
// instead of the raw chat-completions wire format.
type geminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newGeminiProvider(cfg config.ProviderConfig, timeout time.Duration, logger *zap.Logger) (*geminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &geminiProvider{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Generate(ctx context.Context, message, language string) (models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	response, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(message), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(language), genai.RoleUser),
	})
	if err != nil {
		return models.Candidate{}, fmt.Errorf("gemini: generate content: %w", err)
	}

	var txt string
	finishReason := genai.FinishReasonUnspecified
	for _, candidate := range response.Candidates {
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			txt = candidate.Content.Parts[0].Text
			finishReason = candidate.FinishReason
			break
		}
	}
	if strings.TrimSpace(txt) == "" {
		return models.Candidate{}, fmt.Errorf("gemini: %w", models.ErrEmptyCompletion)
	}

	confidence := confidenceTruncated
	if finishReason == genai.FinishReasonStop {
		confidence = confidenceNaturalStop
	}

	return models.Candidate{
		Text:       txt,
		Confidence: confidence,
		Provider:   p.Name(),
	}, nil
}

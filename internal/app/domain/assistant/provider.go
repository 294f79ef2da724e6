// Package assistant implements the multi-provider response orchestration
// behind the tourism chatbot: fan out one question to every configured
// text-generation backend, tolerate any subset failing, score the survivors
// and return exactly one winner.
package assistant

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
	"github.com/jharkhand-yatra/tourassist/internal/pkg/config"
)

// Provider is one backend text-generation service. Generate returns a
// normalized Candidate or an error; it never panics and never returns a
// Candidate with empty text. Errors are absorbed by the invoker and never
// reach the caller of the pipeline.
type Provider interface {
	Name() string
	Generate(ctx context.Context, message, language string) (models.Candidate, error)
}

// Confidence assigned from the backend's finish reason. A natural stop is
// a coarse proxy for a complete answer; anything else (truncation,
// max-tokens, unknown) is trusted less.
const (
	confidenceNaturalStop = 0.9
	confidenceTruncated   = 0.7
)

const systemPromptTemplate = "You are a friendly and knowledgeable tourism assistant for the Indian state of Jharkhand. " +
	"Help travellers with destinations, waterfalls, temples, tribal culture, festivals, food, accommodation and transport. " +
	"Reply in the language with code %q."

func systemPrompt(language string) string {
	if language == "" {
		language = "en"
	}
	return fmt.Sprintf(systemPromptTemplate, language)
}

// NewRegistry builds the closed, ordered provider set from configuration.
// Providers without an API key are skipped. Registration order is stable
// and doubles as the selection tie-break order.
func NewRegistry(cfg config.AssistantConfig, logger *zap.Logger) []Provider {
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	var providers []Provider
	if cfg.OpenAI.APIKey != "" {
		providers = append(providers, newOpenAICompatProvider("openai", cfg.OpenAI, httpClient, logger))
	}
	if cfg.DeepSeek.APIKey != "" {
		providers = append(providers, newOpenAICompatProvider("deepseek", cfg.DeepSeek, httpClient, logger))
	}
	if cfg.Gemini.APIKey != "" {
		if p, err := newGeminiProvider(cfg.Gemini, cfg.ProviderTimeout, logger); err != nil {
			logger.Error("Failed to initialize gemini provider", zap.Error(err))
		} else {
			providers = append(providers, p)
		}
	}
	if cfg.Grok.APIKey != "" {
		providers = append(providers, newOpenAICompatProvider("grok", cfg.Grok, httpClient, logger))
	}

	for _, p := range providers {
		logger.Info("Registered assistant provider", zap.String("provider", p.Name()))
	}
	return providers
}

package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
	"github.com/jharkhand-yatra/tourassist/internal/observability/metrics"
)

// Service ties the pipeline together: fan out, filter, score, select, and
// wrap the winner (or the localized fallback) into a chat reply. It is
// stateless between invocations apart from the short-TTL response cache.
type Service struct {
	invoker *Invoker
	repo    Repository
	cache   *gocache.Cache
	logger  *zap.Logger
}

func NewService(invoker *Invoker, repo Repository, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		invoker: invoker,
		repo:    repo,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		logger:  logger,
	}
}

// SelectBestResponse runs one fan-out over all registered providers and
// returns the top-scoring candidate. The boolean is false when every
// provider failed; the function never returns an error — the pipeline is
// total for any input.
func (s *Service) SelectBestResponse(ctx context.Context, message, language string) (models.ScoredCandidate, bool) {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "SelectBestResponse", trace.WithAttributes(
		attribute.String("language", language),
		attribute.Int("message.length", len(message)),
	))
	defer span.End()

	results := s.invoker.Invoke(ctx, message, language)
	winner, ok := selectBest(results, s.logger)
	if !ok {
		span.SetStatus(codes.Ok, "No usable response from any provider")
		return models.ScoredCandidate{}, false
	}

	metrics.Get().SelectionScore.Record(ctx, winner.Score, providerAttr(winner.Provider))
	span.SetAttributes(
		attribute.String("winner.provider", winner.Provider),
		attribute.Float64("winner.score", winner.Score),
	)
	span.SetStatus(codes.Ok, "Best response selected")
	return winner, true
}

// Respond is the chat-turn entry point used by the HTTP handler. It checks
// the response cache, runs selection, substitutes the localized fallback
// when all providers fail, and persists the interaction record
// asynchronously.
func (s *Service) Respond(ctx context.Context, message, language string) (models.ChatMessageResponse, error) {
	if strings.TrimSpace(message) == "" {
		return models.ChatMessageResponse{}, models.ErrEmptyMessage
	}
	if language == "" {
		language = "en"
	}

	cacheKey := language + "|" + message
	if cached, found := s.cache.Get(cacheKey); found {
		resp := cached.(models.ChatMessageResponse)
		resp.Cached = true
		metrics.Get().CachedResponsesTotal.Add(ctx, 1)
		return resp, nil
	}

	startTime := time.Now()
	winner, ok := s.SelectBestResponse(ctx, message, language)
	latencyMs := int(time.Since(startTime).Milliseconds())

	var resp models.ChatMessageResponse
	if ok {
		resp = models.ChatMessageResponse{
			Reply:    winner.Text,
			Provider: winner.Provider,
			Score:    winner.Score,
		}
		s.cache.SetDefault(cacheKey, resp)
	} else {
		metrics.Get().FallbackResponsesTotal.Add(ctx, 1)
		resp = models.ChatMessageResponse{
			Reply:    fallbackMessage(language),
			Fallback: true,
		}
	}

	s.logInteractionAsync(ctx, message, language, winner, latencyMs, !ok)

	return resp, nil
}

// logInteractionAsync persists the interaction without blocking the chat
// turn. A fresh context detached from the request keeps the write alive
// after the response is sent.
func (s *Service) logInteractionAsync(ctx context.Context, message, language string, winner models.ScoredCandidate, latencyMs int, fallback bool) {
	if s.repo == nil {
		return
	}

	asyncCtx := context.WithoutCancel(ctx)
	interaction := models.AssistantInteraction{
		PromptHash: hashPrompt(message),
		Language:   language,
		Provider:   winner.Provider,
		Confidence: winner.Confidence,
		Score:      winner.Score,
		LatencyMs:  latencyMs,
		Fallback:   fallback,
	}

	go func() {
		if _, err := s.repo.SaveInteraction(asyncCtx, interaction); err != nil {
			metrics.Get().InteractionLogErrorTotal.Add(asyncCtx, 1)
			s.logger.Error("Failed to log assistant interaction",
				zap.String("provider", interaction.Provider),
				zap.Error(err),
			)
		}
	}()
}

// hashPrompt anonymizes the user's message for the interaction log.
func hashPrompt(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

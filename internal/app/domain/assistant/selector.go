package assistant

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
)

// selectBest filters failed slots out of a fan-out result set, scores the
// survivors and returns the single best candidate. The second return is
// false when every provider failed — an expected operational condition, not
// an error.
//
// Ties are broken by provider registration order: the sort is stable and
// failed-slot filtering preserves slot order, so of two equal scores the
// first-registered provider wins. This is deterministic across runs.
func selectBest(results []models.InvocationResult, logger *zap.Logger) (models.ScoredCandidate, bool) {
	scored := make([]models.ScoredCandidate, 0, len(results))
	for _, r := range results {
		if !r.Ok() {
			continue
		}
		breakdown := ScoreWithBreakdown(r.Candidate.Text, r.Candidate.Confidence)
		scored = append(scored, models.ScoredCandidate{
			Candidate: *r.Candidate,
			Score:     breakdown.Total,
		})
		logger.Debug("Scored candidate",
			zap.String("provider", r.Candidate.Provider),
			zap.Float64("length_term", breakdown.Length),
			zap.Float64("keyword_term", breakdown.Keywords),
			zap.Float64("structure_term", breakdown.Structure),
			zap.Float64("confidence_term", breakdown.Confidence),
			zap.Float64("score", breakdown.Total),
		)
	}

	if len(scored) == 0 {
		return models.ScoredCandidate{}, false
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	winner := scored[0]
	logger.Info("Selected best response",
		zap.String("provider", winner.Provider),
		zap.Float64("score", winner.Score),
		zap.Int("candidates", len(scored)),
	)
	return winner, true
}

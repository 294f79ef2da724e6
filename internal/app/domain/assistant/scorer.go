package assistant

import "strings"

// Scoring weights and thresholds. Kept as named constants so the rule is
// auditable and unit-testable independently of the orchestration logic.
// Scores are unitless and only comparable within one selection run.
const (
	idealLengthMin = 100
	idealLengthMax = 500
	shortLengthMax = 50

	idealLengthBonus = 2.0
	longLengthBonus  = 1.0
	shortPenalty     = -1.0

	keywordBonus    = 0.5
	newlineBonus    = 1.0
	bulletBonus     = 1.0
	confidenceScale = 2.0
)

// topicKeywords are the domain terms that signal a topically rich answer.
// Presence is a case-insensitive set-membership check, not a frequency
// count: the same keyword appearing five times still earns one bonus.
var topicKeywords = []string{
	"jharkhand",
	"tourism",
	"culture",
	"festival",
	"food",
	"temple",
	"heritage",
	"tradition",
	"art",
	"history",
	"travel",
	"location",
	"cuisine",
	"accommodation",
	"transport",
	"waterfall",
	"wildlife",
	"tribal",
}

// ScoreBreakdown records each term of one scoring run so the selection can
// be explained in logs.
type ScoreBreakdown struct {
	Length     float64
	Keywords   float64
	Structure  float64
	Confidence float64
	Total      float64
}

// Score assigns a heuristic quality score to a candidate's text and
// confidence. It is a pure function: same input, same score, no external
// calls, no randomness. Empty text counts as zero words and collects only
// the short-answer penalty plus the confidence term.
func Score(text string, confidence float64) float64 {
	return ScoreWithBreakdown(text, confidence).Total
}

// ScoreWithBreakdown is Score with the individual terms exposed.
func ScoreWithBreakdown(text string, confidence float64) ScoreBreakdown {
	var b ScoreBreakdown

	words := len(strings.Fields(text))
	switch {
	case words >= idealLengthMin && words <= idealLengthMax:
		b.Length = idealLengthBonus
	case words > idealLengthMax:
		b.Length = longLengthBonus
	case words < shortLengthMax:
		b.Length = shortPenalty
	}

	lower := strings.ToLower(text)
	for _, kw := range topicKeywords {
		if strings.Contains(lower, kw) {
			b.Keywords += keywordBonus
		}
	}

	if strings.Contains(text, "\n") {
		b.Structure += newlineBonus
	}
	if strings.Contains(text, "-") || strings.Contains(text, "•") {
		b.Structure += bulletBonus
	}

	b.Confidence = confidence * confidenceScale

	b.Total = b.Length + b.Keywords + b.Structure + b.Confidence
	return b
}

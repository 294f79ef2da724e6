package assistant

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharkhand-yatra/tourassist/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	// Instruments are created against the global no-op meter provider.
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// words builds a text of n filler words with no keywords, newlines or
// bullet markers, so only the length and confidence terms apply.
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func TestScoreLengthBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		words    int
		expected float64
	}{
		{"exactly 100 words gets ideal bonus", 100, 2.0},
		{"exactly 500 words gets ideal bonus", 500, 2.0},
		{"501 words gets long bonus", 501, 1.0},
		{"49 words gets short penalty", 49, -1.0},
		{"75 words is neutral", 75, 0.0},
		{"exactly 50 words is neutral", 50, 0.0},
		{"exactly 99 words is neutral", 99, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// confidence 0 isolates the length term
			assert.InDelta(t, tt.expected, Score(words(tt.words), 0), 1e-9)
		})
	}
}

func TestScoreDeterminism(t *testing.T) {
	text := "Jharkhand has beautiful waterfalls.\n- Hundru Falls\n- Dassam Falls"
	first := Score(text, 0.9)
	second := Score(text, 0.9)
	assert.Equal(t, first, second)
}

func TestScoreConfidenceMonotonic(t *testing.T) {
	text := words(75)
	low := Score(text, 0.0)
	high := Score(text, 1.0)
	assert.InDelta(t, 2.0, high-low, 1e-9)

	mid := Score(text, 0.5)
	assert.InDelta(t, 1.0, mid-low, 1e-9)
}

func TestScoreKeywordsCountOncePerKeyword(t *testing.T) {
	single := Score("culture", 0)
	repeated := Score("culture culture culture", 0)

	// Both are short texts: same length penalty, same single keyword bonus.
	assert.Equal(t, single, repeated)
}

func TestScoreKeywordsCaseInsensitive(t *testing.T) {
	require.Equal(t, Score("CULTURE", 0), Score("culture", 0))
}

func TestScoreStructureBonusesAdditive(t *testing.T) {
	plain := Score(words(75), 0)
	withNewline := Score(words(75)+"\nlorem", 0)
	withBullet := Score(words(75)+" - lorem", 0)
	withBoth := Score(words(75)+"\n- lorem", 0)

	assert.InDelta(t, plain+1.0, withNewline, 1e-9)
	assert.InDelta(t, plain+1.0, withBullet, 1e-9)
	assert.InDelta(t, plain+2.0, withBoth, 1e-9)
}

func TestScoreEmptyText(t *testing.T) {
	// Zero words: short penalty plus the confidence term, nothing else.
	assert.InDelta(t, -1.0+0.9*2.0, Score("", 0.9), 1e-9)
	assert.InDelta(t, -1.0, Score("   ", 0), 1e-9)
}

func TestScoreBreakdownSumsToTotal(t *testing.T) {
	b := ScoreWithBreakdown("Jharkhand tourism:\n- waterfalls\n- temples", 0.7)
	assert.InDelta(t, b.Length+b.Keywords+b.Structure+b.Confidence, b.Total, 1e-9)
	assert.InDelta(t, 0.7*2.0, b.Confidence, 1e-9)
}

package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
)

// fakeRepo records saved interactions on a channel so async persistence can
// be asserted without sleeps.
type fakeRepo struct {
	saved chan models.AssistantInteraction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: make(chan models.AssistantInteraction, 8)}
}

func (f *fakeRepo) SaveInteraction(_ context.Context, interaction models.AssistantInteraction) (uuid.UUID, error) {
	f.saved <- interaction
	return uuid.New(), nil
}

func (f *fakeRepo) waitForSave(t *testing.T) models.AssistantInteraction {
	t.Helper()
	select {
	case interaction := <-f.saved:
		return interaction
	case <-time.After(2 * time.Second):
		t.Fatal("interaction was not persisted")
		return models.AssistantInteraction{}
	}
}

func newTestService(providers []Provider, repo Repository) *Service {
	inv := NewInvoker(providers, 0, zap.NewNop())
	return NewService(inv, repo, time.Minute, zap.NewNop())
}

func TestRespondReturnsWinner(t *testing.T) {
	richAnswer := "Jharkhand has beautiful waterfalls and rich tribal culture. " + words(110) +
		"\nDo not miss the festival season, the local food and the heritage temples." +
		"\n- Hundru Falls\n- Baidyanath temple"

	repo := newFakeRepo()
	svc := newTestService([]Provider{
		&stubProvider{name: "openai", text: richAnswer, conf: 0.9},
		&stubProvider{name: "deepseek", err: errors.New("simulated timeout")},
		&stubProvider{name: "gemini", text: "Hi", conf: 0.9},
	}, repo)

	resp, err := svc.Respond(context.Background(), "tell me about Jharkhand", "en")
	require.NoError(t, err)

	assert.Equal(t, richAnswer, resp.Reply)
	assert.Equal(t, "openai", resp.Provider)
	assert.False(t, resp.Fallback)
	assert.False(t, resp.Cached)
	assert.Greater(t, resp.Score, Score("Hi", 0.9))

	saved := repo.waitForSave(t)
	assert.Equal(t, "openai", saved.Provider)
	assert.False(t, saved.Fallback)
	assert.Equal(t, hashPrompt("tell me about Jharkhand"), saved.PromptHash)
	assert.NotContains(t, saved.PromptHash, "Jharkhand")
}

func TestRespondAllProvidersFailed(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService([]Provider{
		&stubProvider{name: "openai", err: errors.New("boom")},
		&stubProvider{name: "deepseek", err: errors.New("boom")},
		&stubProvider{name: "gemini", err: errors.New("boom")},
	}, repo)

	resp, err := svc.Respond(context.Background(), "hello", "hi")
	require.NoError(t, err, "all-providers-failed is not an error")

	assert.True(t, resp.Fallback)
	assert.Equal(t, fallbackMessages["hi"], resp.Reply)
	assert.Empty(t, resp.Provider)

	saved := repo.waitForSave(t)
	assert.True(t, saved.Fallback)
	assert.Empty(t, saved.Provider)
}

func TestRespondFallbackLanguageDefaultsToEnglish(t *testing.T) {
	svc := newTestService([]Provider{
		&stubProvider{name: "openai", err: errors.New("boom")},
	}, nil)

	resp, err := svc.Respond(context.Background(), "hello", "fr")
	require.NoError(t, err)
	assert.Equal(t, fallbackMessages["en"], resp.Reply)
}

func TestRespondEmptyMessage(t *testing.T) {
	svc := newTestService([]Provider{
		&stubProvider{name: "openai", text: words(100), conf: 0.9},
	}, nil)

	_, err := svc.Respond(context.Background(), "   ", "en")
	assert.ErrorIs(t, err, models.ErrEmptyMessage)
}

func TestRespondCachesWinningResponse(t *testing.T) {
	provider := &stubProvider{name: "openai", text: words(150), conf: 0.9}
	svc := newTestService([]Provider{provider}, nil)

	first, err := svc.Respond(context.Background(), "waterfalls?", "en")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Respond(context.Background(), "waterfalls?", "en")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Reply, second.Reply)
	assert.Equal(t, int32(1), provider.callCount.Load(), "cached turn must not fan out again")

	// A different language is a different cache entry.
	third, err := svc.Respond(context.Background(), "waterfalls?", "hi")
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, int32(2), provider.callCount.Load())
}

func TestRespondDoesNotCacheFallback(t *testing.T) {
	provider := &stubProvider{name: "openai", err: errors.New("boom")}
	svc := newTestService([]Provider{provider}, nil)

	first, err := svc.Respond(context.Background(), "hello", "en")
	require.NoError(t, err)
	assert.True(t, first.Fallback)

	second, err := svc.Respond(context.Background(), "hello", "en")
	require.NoError(t, err)
	assert.True(t, second.Fallback)
	assert.False(t, second.Cached, "fallback answers are retried, not cached")
	assert.Equal(t, int32(2), provider.callCount.Load())
}

func TestSelectBestResponseNeverErrors(t *testing.T) {
	tests := []struct {
		name      string
		providers []Provider
		wantOK    bool
	}{
		{
			name:   "no providers registered",
			wantOK: false,
		},
		{
			name: "every provider fails",
			providers: []Provider{
				&stubProvider{name: "openai", err: errors.New("boom")},
				&stubProvider{name: "deepseek", err: errors.New("boom")},
			},
			wantOK: false,
		},
		{
			name: "one provider survives",
			providers: []Provider{
				&stubProvider{name: "openai", err: errors.New("boom")},
				&stubProvider{name: "deepseek", text: words(100), conf: 0.9},
			},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.providers, nil)
			winner, ok := svc.SelectBestResponse(context.Background(), "hello", "en")
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.NotEmpty(t, winner.Text)
				assert.NotEmpty(t, winner.Provider)
			}
		})
	}
}

func TestHashPromptStable(t *testing.T) {
	assert.Equal(t, hashPrompt("hello"), hashPrompt("hello"))
	assert.NotEqual(t, hashPrompt("hello"), hashPrompt("hello!"))
	assert.Len(t, hashPrompt("hello"), 64)
	assert.False(t, strings.Contains(hashPrompt("hello"), " "))
}

package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandlers(svc, zap.NewNop())
	r.POST("/api/v1/chat/message", h.HandleChatMessage)
	return r
}

func postChatMessage(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleChatMessageOK(t *testing.T) {
	svc := newTestService([]Provider{
		&stubProvider{name: "openai", text: words(120), conf: 0.9},
	}, nil)
	r := newTestRouter(svc)

	w := postChatMessage(t, r, `{"message": "plan a weekend in Ranchi", "language": "en"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "openai", resp.Provider)
	assert.NotEmpty(t, resp.Reply)
	assert.False(t, resp.Fallback)
}

func TestHandleChatMessageMissingMessage(t *testing.T) {
	svc := newTestService(nil, nil)
	r := newTestRouter(svc)

	for _, body := range []string{`{}`, `{"language": "en"}`, `not json`} {
		w := postChatMessage(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestHandleChatMessageWhitespaceMessage(t *testing.T) {
	svc := newTestService(nil, nil)
	r := newTestRouter(svc)

	w := postChatMessage(t, r, `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleChatMessageFallbackIsStillOK(t *testing.T) {
	svc := newTestService([]Provider{
		&stubProvider{name: "openai", err: errors.New("boom")},
	}, nil)
	r := newTestRouter(svc)

	w := postChatMessage(t, r, `{"message": "hello", "language": "hi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Fallback)
	assert.Equal(t, fallbackMessages["hi"], resp.Reply)
}

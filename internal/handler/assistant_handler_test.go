package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strukly/strukly-backend/internal/gemini"
)

type stubAssistantService struct {
	reply   string
	err     error
	message string
	history []gemini.ChatMessage
}

func (s *stubAssistantService) Chat(ctx context.Context, message string, history []gemini.ChatMessage) (string, error) {
	s.message = message
	s.history = history
	return s.reply, s.err
}

func newAssistantRouter(svc *stubAssistantService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAssistantHandler(svc).RegisterRoutes(router, injectUser("u-1"))
	return router
}

func TestChatReturnsReply(t *testing.T) {
	svc := &stubAssistantService{reply: "Tentu, silakan unggah struk Anda."}
	router := newAssistantRouter(svc)

	w := performJSON(router, http.MethodPost, "/v1/assistant/chat", gin.H{
		"message": "Bagaimana cara unggah struk?",
		"history": []gin.H{
			{"sender": "user", "text": "Halo"},
			{"sender": "bot", "text": "Halo! Ada yang bisa saya bantu?"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Tentu, silakan unggah struk Anda.", resp.Response)

	assert.Equal(t, "Bagaimana cara unggah struk?", svc.message)
	require.Len(t, svc.history, 2)
	assert.Equal(t, "user", svc.history[0].Role)
	assert.Equal(t, "model", svc.history[1].Role)
}

func TestChatRequiresMessage(t *testing.T) {
	router := newAssistantRouter(&stubAssistantService{})

	w := performJSON(router, http.MethodPost, "/v1/assistant/chat", gin.H{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatFallbackOnFailure(t *testing.T) {
	svc := &stubAssistantService{err: errors.New("model unavailable")}
	router := newAssistantRouter(svc)

	w := performJSON(router, http.MethodPost, "/v1/assistant/chat", gin.H{"message": "Halo"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, chatFallbackMessage, resp.Response)
}

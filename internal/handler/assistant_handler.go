package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/strukly/strukly-backend/internal/gemini"
	"github.com/strukly/strukly-backend/internal/model"
	"github.com/strukly/strukly-backend/internal/service"
)

// chatFallbackMessage is returned verbatim whenever the assistant backend
// fails, so the client always has something to display.
const chatFallbackMessage = "Maaf, saya sedang pusing. Coba lagi nanti ya."

// AssistantHandler handles HTTP requests for the in-app help assistant
type AssistantHandler struct {
	assistantService service.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService service.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

// Chat handles the POST /assistant/chat endpoint
// @Summary Chat with the assistant
// @Description Send a message with optional history and receive the assistant's reply
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body model.ChatRequest true "Message and conversation history"
// @Success 200 {object} model.ChatResponse "Assistant reply"
// @Failure 400 {object} model.ErrorResponse "Message required"
// @Failure 500 {object} model.ChatResponse "Fallback reply"
// @Security BearerAuth
// @Router /v1/assistant/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if req.Message == "" {
		respondBadRequest(c, "Message required", newErrorDetail("message", "Message is required"))
		return
	}

	history := make([]gemini.ChatMessage, 0, len(req.History))
	for _, msg := range req.History {
		role := "model"
		if msg.Sender == "user" {
			role = "user"
		}
		history = append(history, gemini.ChatMessage{
			Role: role,
			Text: msg.Text,
		})
	}

	reply, err := h.assistantService.Chat(c.Request.Context(), req.Message, history)
	if err != nil {
		logError(c, "assistant_chat_failed", err, map[string]interface{}{
			"error_type": "service_error",
		})
		// Fixed fallback so the client always renders a reply
		c.JSON(StatusInternalServerError, model.ChatResponse{Response: chatFallbackMessage})
		return
	}

	respondOK(c, model.ChatResponse{Response: reply})
}

// RegisterRoutes registers the assistant routes
func (h *AssistantHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	assistant := router.Group("/v1/assistant", authMiddleware)
	{
		assistant.POST("/chat", h.Chat)
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/strukly/strukly-backend/internal/gemini"
)

// ChatModel answers assistant conversations
type ChatModel interface {
	Chat(ctx context.Context, message string, history []gemini.ChatMessage) (string, error)
}

// AssistantService runs the in-app help assistant
type AssistantService interface {
	Chat(ctx context.Context, message string, history []gemini.ChatMessage) (string, error)
}

type assistantService struct {
	model ChatModel
}

// NewAssistantService creates a new AssistantService
func NewAssistantService(model ChatModel) AssistantService {
	return &assistantService{model: model}
}

// Chat forwards a user message with its history to the model and returns the
// reply. Errors pass through so the handler can substitute the fixed fallback
// message.
func (s *assistantService) Chat(ctx context.Context, message string, history []gemini.ChatMessage) (string, error) {
	reply, err := s.model.Chat(ctx, message, history)
	if err != nil {
		return "", fmt.Errorf("assistant chat failed: %w", err)
	}
	return reply, nil
}

package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

const chatPersonaPrompt = `You are Strukly AI, a helpful assistant for a receipt management app.
Language: Indonesian (Bahasa Indonesia).
Tone: Friendly, concise, helpful.
Capabilities: Help users upload receipts, explain features, and troubleshoot errors.`

const chatPersonaAck = "Siap! Saya Strukly AI yang akan membantu pengguna dengan ramah."

// ChatMessage is one prior turn of an assistant conversation. Role is either
// "user" or "model".
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Chat sends a user message with optional prior history and returns the
// assistant's reply. The persona prompt and its acknowledgement are prepended
// to the history on every call; the session itself is stateless.
func (c *Client) Chat(ctx context.Context, message string, history []ChatMessage) (string, error) {
	session := c.model.StartChat()

	session.History = []*genai.Content{
		{
			Role:  "user",
			Parts: []genai.Part{genai.Text(chatPersonaPrompt)},
		},
		{
			Role:  "model",
			Parts: []genai.Part{genai.Text(chatPersonaAck)},
		},
	}
	for _, msg := range history {
		role := "model"
		if msg.Role == "user" {
			role = "user"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", &GeminiError{
			Op:  "send_chat_message",
			Err: err,
		}
	}

	reply, err := responseText(resp)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", &GeminiError{
			Op:  "read_chat_reply",
			Err: fmt.Errorf("empty reply from model"),
		}
	}
	return reply, nil
}

package providers

import (
	"context"
	"errors"

	"github.com/arogyavritti/backend/internal/domain/entities"
)

// ErrChatUnauthorized indicates the model provider rejected our credentials.
var ErrChatUnauthorized = errors.New("chat provider unauthorized")

// ChatProvider generates assistant replies
type ChatProvider interface {
	// Reply continues the conversation in history with message.
	Reply(ctx context.Context, systemPrompt string, history []entities.ChatMessage, message string) (string, error)
}

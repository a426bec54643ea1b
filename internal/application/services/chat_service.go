package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
)

const (
	chatHistoryTTLSeconds = 60 * 60 * 24
	chatHistoryMaxTurns   = 20
	chatMessageMaxLength  = 4000
)

// PhysicianPrompt frames the assistant as a practising doctor.
const PhysicianPrompt = `You are a professional and experienced healthcare doctor.
Only respond like a qualified physician. Do not ask unnecessary questions.
Do not respond like an assistant or AI.
If a patient describes symptoms, give them direct medical advice, possible medication (OTC or general), and when to visit a hospital.
Avoid saying "I am an AI" or "consult a doctor" unless there's a severe case.
Speak professionally, in simple but clinical language.
Detect the language the patient is using and reply in the same language.`

// ChatReply is the assistant response with the updated conversation
type ChatReply struct {
	SessionID string                 `json:"session_id"`
	Reply     string                 `json:"reply"`
	History   []entities.ChatMessage `json:"history"`
}

// ChatService runs assistant conversations and keeps their history in the cache
type ChatService struct {
	provider providers.ChatProvider
	cache    providers.CacheProvider
	now      func() time.Time
}

// NewChatService creates a new chat service. provider may be nil when no
// model is configured; cache may be nil to disable history.
func NewChatService(provider providers.ChatProvider, cache providers.CacheProvider) *ChatService {
	return &ChatService{
		provider: provider,
		cache:    cache,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Send appends message to the session and returns the doctor's reply. An
// empty sessionID starts a new conversation.
func (s *ChatService) Send(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required")
	}
	if len(message) > chatMessageMaxLength {
		return nil, apperrors.NewValidationError("message is too long")
	}
	if s.provider == nil {
		return nil, apperrors.NewExternalError("assistant is not configured", nil)
	}

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	history := s.loadHistory(ctx, sessionID)

	reply, err := s.provider.Reply(ctx, PhysicianPrompt, history, message)
	if err != nil {
		if errors.Is(err, providers.ErrChatUnauthorized) {
			return nil, apperrors.NewInternalError("assistant credentials were rejected", err)
		}
		return nil, apperrors.NewExternalError("assistant is unavailable", err)
	}

	now := s.now()
	history = append(history,
		entities.ChatMessage{Role: entities.ChatRoleUser, Content: message, CreatedAt: now},
		entities.ChatMessage{Role: entities.ChatRoleDoctor, Content: reply, CreatedAt: now},
	)
	if len(history) > chatHistoryMaxTurns {
		history = history[len(history)-chatHistoryMaxTurns:]
	}
	s.saveHistory(ctx, sessionID, history)

	return &ChatReply{SessionID: sessionID, Reply: reply, History: history}, nil
}

// History returns the stored conversation for a session.
func (s *ChatService) History(ctx context.Context, sessionID string) []entities.ChatMessage {
	return s.loadHistory(ctx, sessionID)
}

func chatHistoryKey(sessionID string) string {
	return "chat:session:" + sessionID
}

func (s *ChatService) loadHistory(ctx context.Context, sessionID string) []entities.ChatMessage {
	history := make([]entities.ChatMessage, 0)
	if s.cache == nil {
		return history
	}

	raw, err := s.cache.Get(ctx, chatHistoryKey(sessionID))
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("failed to load chat history")
		}
		return history
	}
	if err := json.Unmarshal(raw, &history); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("discarding corrupt chat history")
		return make([]entities.ChatMessage, 0)
	}
	return history
}

func (s *ChatService) saveHistory(ctx context.Context, sessionID string, history []entities.ChatMessage) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(history)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, chatHistoryKey(sessionID), payload, chatHistoryTTLSeconds); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("failed to save chat history")
	}
}

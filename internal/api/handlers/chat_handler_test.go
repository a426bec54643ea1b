package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/arogyavritti/backend/internal/api/handlers"
	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/entities"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
)

func TestChatHandler_Chat(t *testing.T) {
	t.Run("returns reply", func(t *testing.T) {
		svc := new(MockChatService)
		handler := handlers.NewChatHandler(svc)
		svc.On("Send", mock.Anything, "s1", "I have a headache").Return(&services.ChatReply{
			SessionID: "s1",
			Reply:     "How long have you had it?",
			History:   []entities.ChatMessage{},
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/assistant/chat", bytes.NewBufferString(`{"session_id":"s1","message":"I have a headache"}`))
		w := httptest.NewRecorder()
		handler.Chat(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "How long have you had it?")
	})

	t.Run("assistant unavailable", func(t *testing.T) {
		svc := new(MockChatService)
		handler := handlers.NewChatHandler(svc)
		svc.On("Send", mock.Anything, "", "hi").Return(nil, apperrors.NewExternalError("assistant is unavailable", nil))

		w := httptest.NewRecorder()
		handler.Chat(w, httptest.NewRequest(http.MethodPost, "/api/assistant/chat", bytes.NewBufferString(`{"message":"hi"}`)))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("invalid payload", func(t *testing.T) {
		svc := new(MockChatService)
		handler := handlers.NewChatHandler(svc)

		w := httptest.NewRecorder()
		handler.Chat(w, httptest.NewRequest(http.MethodPost, "/api/assistant/chat", bytes.NewBufferString(`nope`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChatHandler_GetHistory(t *testing.T) {
	svc := new(MockChatService)
	handler := handlers.NewChatHandler(svc)
	svc.On("History", mock.Anything, "s1").Return([]entities.ChatMessage{})

	req := httptest.NewRequest(http.MethodGet, "/api/assistant/sessions/s1", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()
	handler.GetHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"session_id":"s1","history":[]}`, w.Body.String())
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xela07ax/askrindo-ai-console/internal/chat"
	"github.com/xela07ax/askrindo-ai-console/internal/console/service"
)

type ChatHandler struct {
	service *service.ChatService
}

func NewChatHandler(s *service.ChatService) *ChatHandler {
	return &ChatHandler{service: s}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Send принимает вопрос и синхронно возвращает ответ бота.
// POST /v1/chat/messages
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat payload")
		return
	}

	reply, err := h.service.Ask(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrBusy) {
			writeError(w, http.StatusConflict, "previous question is still being processed")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to process question")
		return
	}
	if reply == nil {
		// Пустое сообщение игнорируется
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// History отдает диалог целиком.
// GET /v1/chat/messages
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.History())
}

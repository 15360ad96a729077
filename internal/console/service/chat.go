package service

import (
	"context"

	"github.com/xela07ax/askrindo-ai-console/internal/chat"
)

// ChatService — фасад продуктового чат-бота для HTTP-слоя.
type ChatService struct {
	session *chat.Session
}

func NewChatService(session *chat.Session) *ChatService {
	return &ChatService{session: session}
}

// Ask отправляет вопрос агенту и возвращает ответ бота.
// nil без ошибки означает проигнорированное пустое сообщение.
func (s *ChatService) Ask(ctx context.Context, text string) (*chat.Message, error) {
	return s.session.Send(ctx, text)
}

// History — диалог целиком в порядке отправки.
func (s *ChatService) History() []chat.Message {
	return s.session.History()
}

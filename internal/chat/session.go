// Package chat обслуживает продуктовый чат-бот: один вопрос в полете,
// история сообщений в памяти процесса.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/askrindo-ai-console/internal/audit"
	"github.com/xela07ax/askrindo-ai-console/internal/connectors"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/normalize"
	"go.uber.org/zap"
)

// ErrBusy возвращается, когда предыдущий вопрос еще обрабатывается.
var ErrBusy = errors.New("chat: previous question still in flight")

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message — одна реплика диалога. Product и Confidence заполняются
// только для ответов бота, когда агент их вернул.
type Message struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Product    string    `json:"product,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
}

type Session struct {
	agentID  string
	gateway  connectors.Gateway
	ledger   *audit.Ledger
	logger   *zap.Logger
	operator string

	busy atomic.Bool

	mu       sync.Mutex
	messages []Message
}

func NewSession(agentID string, gateway connectors.Gateway, ledger *audit.Ledger, operator string, logger *zap.Logger) *Session {
	return &Session{
		agentID:  agentID,
		gateway:  gateway,
		ledger:   ledger,
		logger:   logger.Named("chat"),
		operator: operator,
	}
}

// Send отправляет вопрос агенту и добавляет в историю пару
// вопрос-ответ. Пустой (после трима) текст игнорируется без ошибки.
func (s *Session) Send(ctx context.Context, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	// Вопрос попадает в историю до вызова агента
	s.append(Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})

	res, err := s.gateway.Invoke(ctx, text, s.agentID)
	if err != nil {
		s.logger.Warn("chat transport failure", zap.Error(err))
		reply := s.append(Message{
			ID:        uuid.New().String(),
			Role:      RoleBot,
			Content:   "An error occurred. Please try again.",
			Timestamp: time.Now(),
		})
		return &reply, nil
	}

	reply := Message{
		ID:        uuid.New().String(),
		Role:      RoleBot,
		Timestamp: time.Now(),
	}

	if res.Ok() {
		result := res.Response.Result
		reply.Content = normalize.Text(result, "answer", "text", "message")
		if reply.Content == "" {
			reply.Content = res.Response.Message
		}
		if reply.Content == "" {
			reply.Content = "I could not find an answer."
		}
		reply.Product = normalize.Text(result, "product_referenced")
		reply.Confidence = normalize.Number(result["confidence"])
	} else {
		if res.Response != nil {
			reply.Content = res.Response.Message
		}
		if reply.Content == "" {
			reply.Content = res.Error
		}
		if reply.Content == "" {
			reply.Content = "Sorry, I could not process your question."
		}
	}
	out := s.append(reply)

	// Аудитим и мягкий отказ: вопрос до агента дошел
	s.ledger.Append(audit.Entry{
		Module:   domain.ModuleChatbot,
		Action:   "Product Inquiry",
		Agent:    "Product Chatbot Agent",
		Decision: "Answered",
		User:     s.operator,
		Details: normalize.Result{
			"question": text,
			"product":  reply.Product,
		},
	})
	return &out, nil
}

func (s *Session) append(m Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return m
}

// History возвращает копию диалога в порядке отправки.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

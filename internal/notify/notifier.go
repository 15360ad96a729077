package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind — тип уведомления, влияет только на отображение.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultTTL — время жизни уведомления на экране оператора.
const DefaultTTL = 4 * time.Second

// Notification — транзиентное сообщение оператору.
type Notification struct {
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
}

// Notifier держит максимум одно активное сообщение. Новое уведомление
// вытесняет предыдущее и перевзводит таймер автоочистки; это не очередь.
// Номер поколения (seq) гарантирует, что просроченный таймер старого
// сообщения не сможет погасить новое.
type Notifier struct {
	mu     sync.Mutex
	cur    *Notification
	seq    uint64
	timer  *time.Timer
	ttl    time.Duration
	logger *zap.Logger
}

func New(ttl time.Duration, logger *zap.Logger) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{
		ttl:    ttl,
		logger: logger.Named("notifier"),
	}
}

// Notify заменяет текущее сообщение и взводит автоочистку.
func (n *Notifier) Notify(message string, kind Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	id := n.seq
	n.cur = &Notification{Message: message, Kind: kind, At: time.Now()}
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(id) })

	n.logger.Debug("notification shown", zap.String("kind", string(kind)), zap.String("message", message))
}

func (n *Notifier) Success(message string) { n.Notify(message, KindSuccess) }
func (n *Notifier) Error(message string)   { n.Notify(message, KindError) }
func (n *Notifier) Info(message string)    { n.Notify(message, KindInfo) }

// Dismiss гасит сообщение немедленно (ручное закрытие оператором).
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.cur = nil
}

// Current возвращает активное сообщение, если оно еще не погашено.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cur == nil {
		return Notification{}, false
	}
	return *n.cur, true
}

// expire вызывается таймером; гасит сообщение, только если оно
// не было вытеснено более новым.
func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq == id {
		n.cur = nil
	}
}

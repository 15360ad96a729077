package audit

import (
	"time"

	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/normalize"
)

// Статусы записи. Запись создается уже завершенной — аудитируются
// только состоявшиеся действия.
const (
	StatusCompleted = "Completed"
	StatusEscalated = "Escalated"
)

// Entry — неизменяемая запись журнала аудита.
// После Append никогда не редактируется и не удаляется.
type Entry struct {
	ID        string        `json:"id"`        // UUID записи
	Timestamp time.Time     `json:"timestamp"` // Момент завершения действия
	Module    domain.Module `json:"module"`    // Chatbot | Underwriting | Claims
	Action    string        `json:"action"`    // Что именно завершилось
	Agent     string        `json:"agent"`     // Кто произвел результат (агент или оператор)
	Decision  string        `json:"decision"`  // Итоговая метка: APPROVE/DECLINE/ESCALATE/REFER/...
	User      string        `json:"user"`      // Действующий оператор
	Status    string        `json:"status"`

	// Полный нормализованный payload этапа — для форензики.
	Details normalize.Result `json:"details,omitempty"`
}

package service

import (
	"fmt"

	"github.com/xela07ax/askrindo-ai-console/internal/audit"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
)

// AuditService отдает журнал аудита консоли с фильтрацией по модулю.
type AuditService struct {
	ledger *audit.Ledger
}

func NewAuditService(ledger *audit.Ledger) *AuditService {
	return &AuditService{ledger: ledger}
}

// FetchLogs возвращает записи от новых к старым. Пустой модуль или
// "All" — без фильтра; неизвестный модуль — ошибка, а не пустой список.
func (s *AuditService) FetchLogs(module domain.Module) ([]audit.Entry, error) {
	if module != "" && module != domain.ModuleAll && !module.Known() {
		return nil, fmt.Errorf("audit_service: unknown module %q", module)
	}
	return s.ledger.List(module), nil
}

// FetchEntry ищет запись по id для раскрытия детального payload'а.
func (s *AuditService) FetchEntry(id string) (audit.Entry, bool) {
	return s.ledger.Get(id)
}

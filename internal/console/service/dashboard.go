package service

import (
	"github.com/xela07ax/askrindo-ai-console/internal/audit"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
)

// DashboardService считает сводку активности на лету из журнала аудита.
type DashboardService struct {
	ledger *audit.Ledger
}

func NewDashboardService(ledger *audit.Ledger) *DashboardService {
	return &DashboardService{ledger: ledger}
}

// GetGlobalStats агрегирует журнал по модулям. Записи идут от новых
// к старым, поэтому первая встреченная по модулю и есть последняя активность.
func (s *DashboardService) GetGlobalStats() *domain.DashboardStats {
	entries := s.ledger.List(domain.ModuleAll)

	byModule := make(map[domain.Module]*domain.ModuleActivity)
	order := []domain.Module{domain.ModuleChatbot, domain.ModuleUnderwriting, domain.ModuleClaims}
	for _, m := range order {
		byModule[m] = &domain.ModuleActivity{Module: m}
	}

	for _, e := range entries {
		act, ok := byModule[e.Module]
		if !ok {
			continue
		}
		act.Actions++
		if act.LastAction == "" {
			act.LastAction = e.Action
			act.LastAt = e.Timestamp
		}
	}

	stats := &domain.DashboardStats{TotalActions: len(entries)}
	for _, m := range order {
		stats.Modules = append(stats.Modules, *byModule[m])
	}
	return stats
}

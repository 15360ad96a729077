package handler

import (
	"net/http"

	"github.com/xela07ax/askrindo-ai-console/internal/console/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(s *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats отдает сводку активности по модулям
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.GetGlobalStats())
}

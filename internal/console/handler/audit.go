package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/askrindo-ai-console/internal/console/service"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(s *service.AuditService) *AuditHandler {
	return &AuditHandler{service: s}
}

// GetLogs возвращает журнал аудита с фильтрацией по модулю
// GET /v1/audit?module=Underwriting
func (h *AuditHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	module := domain.Module(r.URL.Query().Get("module"))

	logs, err := h.service.FetchLogs(module)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown module filter")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// GetEntry раскрывает детальный payload одной записи
// GET /v1/audit/{id}
func (h *AuditHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := h.service.FetchEntry(id)
	if !ok {
		writeError(w, http.StatusNotFound, "audit entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

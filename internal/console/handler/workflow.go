package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xela07ax/askrindo-ai-console/internal/console/service"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/workflow"
)

// WorkflowHandler обслуживает конвейеры андеррайтинга и убытков.
// Форма декодируется по модулю, дальше оба модуля неразличимы.
type WorkflowHandler struct {
	service *service.WorkflowService
	module  domain.Module
}

func NewWorkflowHandler(s *service.WorkflowService, module domain.Module) *WorkflowHandler {
	return &WorkflowHandler{service: s, module: module}
}

func (h *WorkflowHandler) decodeForm(r *http.Request) (any, error) {
	switch h.module {
	case domain.ModuleUnderwriting:
		var f domain.UnderwritingForm
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case domain.ModuleClaims:
		var f domain.ClaimForm
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, errors.New("module has no form")
}

// Submit принимает форму и синхронно выполняет шаг анализа.
// POST /v1/{module}/submit
func (h *WorkflowHandler) Submit(w http.ResponseWriter, r *http.Request) {
	form, err := h.decodeForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	if err := h.service.Submit(r.Context(), h.module, form); err != nil {
		if errors.Is(err, workflow.ErrBusy) {
			writeError(w, http.StatusConflict, "a stage is already in flight")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to run analysis")
		return
	}
	h.State(w, r)
}

// Advance синхронно выполняет шаг финализации.
// POST /v1/{module}/advance
func (h *WorkflowHandler) Advance(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Advance(r.Context(), h.module); err != nil {
		if errors.Is(err, workflow.ErrBusy) {
			writeError(w, http.StatusConflict, "a stage is already in flight")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to run finalization")
		return
	}
	h.State(w, r)
}

// Reset возвращает конвейер к форме.
// POST /v1/{module}/reset
func (h *WorkflowHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(h.module); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset workflow")
		return
	}
	h.State(w, r)
}

type decisionRequest struct {
	Approve bool `json:"approve"`
}

// Decide фиксирует ручное решение оператора по финальному результату.
// POST /v1/{module}/decision
func (h *WorkflowHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision payload")
		return
	}

	entry, err := h.service.Decide(h.module, req.Approve)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record decision")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type attachRequest struct {
	Name string `json:"name"`
}

// Attach добавляет имя документа к заявке.
// POST /v1/{module}/documents
func (h *WorkflowHandler) Attach(w http.ResponseWriter, r *http.Request) {
	var req attachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "document name is required")
		return
	}

	snap, err := h.service.AttachDocument(h.module, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to attach document")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// State отдает снимок конвейера.
// GET /v1/{module}
func (h *WorkflowHandler) State(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(h.module)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read workflow state")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

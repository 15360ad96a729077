package handler

import (
	"net/http"

	"github.com/xela07ax/askrindo-ai-console/internal/notify"
)

type NotifyHandler struct {
	notifier *notify.Notifier
}

func NewNotifyHandler(n *notify.Notifier) *NotifyHandler {
	return &NotifyHandler{notifier: n}
}

// Current отдает активное уведомление, если оно еще не погашено
// GET /v1/notifications/current
func (h *NotifyHandler) Current(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.notifier.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

// Dismiss гасит уведомление вручную
// DELETE /v1/notifications/current
func (h *NotifyHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.notifier.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

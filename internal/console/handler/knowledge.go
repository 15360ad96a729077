package handler

import (
	"net/http"

	"github.com/xela07ax/askrindo-ai-console/internal/console/service"
)

// Лимит размера загружаемого документа
const maxUploadSize = 32 << 20 // 32 MiB

type KnowledgeHandler struct {
	service *service.KnowledgeService
}

func NewKnowledgeHandler(s *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: s}
}

// Upload принимает документ и передает его на обучение базы знаний
// POST /v1/knowledge/documents (multipart/form-data, поле file)
func (h *KnowledgeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if err := h.service.Upload(r.Context(), hdr.Filename, file); err != nil {
		writeError(w, http.StatusBadGateway, "document ingestion failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"file":    hdr.Filename,
	})
}

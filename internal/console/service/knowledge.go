package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xela07ax/askrindo-ai-console/internal/knowledge"
	"github.com/xela07ax/askrindo-ai-console/internal/notify"
	"go.uber.org/zap"
)

// KnowledgeService обучает базу знаний чат-бота загруженными документами.
type KnowledgeService struct {
	client   *knowledge.Client
	notifier *notify.Notifier
	logger   *zap.Logger
}

func NewKnowledgeService(client *knowledge.Client, notifier *notify.Notifier, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		client:   client,
		notifier: notifier,
		logger:   logger.Named("knowledge-service"),
	}
}

// Upload передает документ на ингестию и показывает оператору итог.
func (s *KnowledgeService) Upload(ctx context.Context, filename string, doc io.Reader) error {
	if err := s.client.Ingest(ctx, filename, doc); err != nil {
		s.logger.Warn("knowledge upload failed", zap.String("file", filename), zap.Error(err))
		s.notifier.Error(fmt.Sprintf("Upload failed: %v", err))
		return err
	}
	s.notifier.Success(fmt.Sprintf("%q uploaded and trained successfully.", filename))
	return nil
}

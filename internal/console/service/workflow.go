package service

import (
	"context"
	"fmt"

	"github.com/xela07ax/askrindo-ai-console/internal/audit"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/workflow"
	"go.uber.org/zap"
)

// WorkflowService маршрутизирует операции консоли к процессу нужного модуля.
type WorkflowService struct {
	procs  map[domain.Module]*workflow.Process
	logger *zap.Logger
}

func NewWorkflowService(logger *zap.Logger, procs ...*workflow.Process) *WorkflowService {
	m := make(map[domain.Module]*workflow.Process, len(procs))
	for _, p := range procs {
		m[p.Module()] = p
	}
	return &WorkflowService{
		procs:  m,
		logger: logger.Named("workflow-service"),
	}
}

func (s *WorkflowService) process(module domain.Module) (*workflow.Process, error) {
	p, ok := s.procs[module]
	if !ok {
		return nil, fmt.Errorf("workflow_service: unknown module %q", module)
	}
	return p, nil
}

// Submit запускает анализ по заполненной форме модуля.
func (s *WorkflowService) Submit(ctx context.Context, module domain.Module, form any) error {
	p, err := s.process(module)
	if err != nil {
		return err
	}
	return p.Submit(ctx, form)
}

// Advance запускает финализацию поверх принятого анализа.
func (s *WorkflowService) Advance(ctx context.Context, module domain.Module) error {
	p, err := s.process(module)
	if err != nil {
		return err
	}
	return p.Advance(ctx)
}

// Reset возвращает модуль к форме.
func (s *WorkflowService) Reset(module domain.Module) error {
	p, err := s.process(module)
	if err != nil {
		return err
	}
	p.Reset()
	return nil
}

// Decide фиксирует ручное решение оператора.
func (s *WorkflowService) Decide(module domain.Module, approve bool) (audit.Entry, error) {
	p, err := s.process(module)
	if err != nil {
		return audit.Entry{}, err
	}
	return p.Decide(approve), nil
}

// AttachDocument добавляет документ к заявке модуля.
func (s *WorkflowService) AttachDocument(module domain.Module, name string) (workflow.Snapshot, error) {
	p, err := s.process(module)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	p.AttachDocument(name)
	return p.Snapshot(), nil
}

// Snapshot отдает текущее состояние модуля.
func (s *WorkflowService) Snapshot(module domain.Module) (workflow.Snapshot, error) {
	p, err := s.process(module)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	return p.Snapshot(), nil
}

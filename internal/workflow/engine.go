// Package workflow реализует двухэтапные AI-конвейеры консоли:
// анализ (риск/фрод) и финализация (полис/решение по убытку).
// Каждый модуль — отдельный Process с курсором шага 0..3.
package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xela07ax/askrindo-ai-console/internal/audit"
	"github.com/xela07ax/askrindo-ai-console/internal/connectors"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/normalize"
	"github.com/xela07ax/askrindo-ai-console/internal/notify"
	"go.uber.org/zap"
)

// Позиции курсора воркфлоу. Loading-состояния (1 и 3) видны снаружи,
// пока вызов агента в полете.
const (
	StepSubmit  = 0 // форма заполняется
	StepAnalyze = 1 // анализ в полете
	StepReview  = 2 // результат анализа на рассмотрении
	StepFinal   = 3 // финализация в полете либо завершена
)

// ErrBusy возвращается, когда по модулю уже есть вызов агента в полете.
var ErrBusy = errors.New("workflow: stage already in flight")

// StageSpec описывает один AI-шаг конвейера.
type StageSpec struct {
	Key           string // ключ результата в состоянии процесса
	AgentID       string
	AgentName     string // имя агента в журнале аудита
	Action        string // действие в журнале аудита
	SuccessNote   string
	FailureNote   string
	TransportNote string // пусто -> FailureNote
	DecisionKeys  []string
	FixedDecision string // перекрывает DecisionKeys, если задан
	Prompt        func(form any, docs []string, prior normalize.Result) string
}

// TerminalAction — ручное решение оператора по финальному результату.
type TerminalAction struct {
	Action   string
	Decision string // пусто -> берется из финального результата по DecisionKeys финализации
	Note     string
	Kind     notify.Kind
}

// Definition — декларативное описание конвейера модуля.
type Definition struct {
	Module  domain.Module
	Steps   []string
	Analyze StageSpec
	Final   StageSpec
	Approve TerminalAction
	Reject  TerminalAction
}

// Snapshot — состояние процесса для отдачи наружу.
type Snapshot struct {
	Module  domain.Module               `json:"module"`
	Steps   []string                    `json:"steps"`
	Cursor  int                         `json:"cursor"`
	Busy    bool                        `json:"busy"`
	Form    any                         `json:"form"`
	Docs    []string                    `json:"documents"`
	Results map[string]normalize.Result `json:"results"`
}

// Process — состояние одного модуля. Операции синхронные: вызов агента
// выполняется в горутине HTTP-запроса, параллельный запуск отсекается ErrBusy.
type Process struct {
	def      Definition
	gateway  connectors.Gateway
	ledger   *audit.Ledger
	notifier *notify.Notifier
	metrics  *Metrics
	logger   *zap.Logger
	operator string

	mu       sync.Mutex
	cursor   int
	epoch    uint64 // инкремент на Reset; устаревшие завершения отбрасываются
	inFlight bool
	form     any
	docs     []string
	results  map[string]normalize.Result
}

func NewProcess(def Definition, gateway connectors.Gateway, ledger *audit.Ledger, notifier *notify.Notifier, metrics *Metrics, operator string, logger *zap.Logger) *Process {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Process{
		def:      def,
		gateway:  gateway,
		ledger:   ledger,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.Named("workflow").With(zap.String("module", string(def.Module))),
		operator: operator,
		results:  make(map[string]normalize.Result),
	}
}

// Submit запускает шаг анализа для заполненной формы. Предыдущие
// результаты обоих шагов сбрасываются до вызова агента.
func (p *Process) Submit(ctx context.Context, form any) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return ErrBusy
	}
	p.inFlight = true
	epoch := p.epoch
	p.cursor = StepAnalyze
	p.form = form
	delete(p.results, p.def.Analyze.Key)
	delete(p.results, p.def.Final.Key)
	docs := append([]string(nil), p.docs...)
	p.mu.Unlock()

	prompt := p.def.Analyze.Prompt(form, docs, nil)
	start := time.Now()
	res, err := p.gateway.Invoke(ctx, prompt, p.def.Analyze.AgentID)
	p.finishStage(epoch, p.def.Analyze, res, err, start, StepReview, StepSubmit)
	return nil
}

// Advance запускает шаг финализации поверх принятого анализа.
// Без результата анализа — тихий no-op, агент не вызывается.
func (p *Process) Advance(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return ErrBusy
	}
	prior, ok := p.results[p.def.Analyze.Key]
	if !ok {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	epoch := p.epoch
	p.cursor = StepFinal
	form := p.form
	docs := append([]string(nil), p.docs...)
	p.mu.Unlock()

	prompt := p.def.Final.Prompt(form, docs, prior)
	start := time.Now()
	res, err := p.gateway.Invoke(ctx, prompt, p.def.Final.AgentID)
	p.finishStage(epoch, p.def.Final, res, err, start, StepFinal, StepReview)
	return nil
}

// finishStage применяет исход вызова агента к состоянию процесса.
// Завершение из прошлой эпохи снимает флаг полета, но не трогает состояние.
func (p *Process) finishStage(epoch uint64, st StageSpec, res *connectors.InvokeResult, err error, start time.Time, onSuccess, onFail int) {
	took := time.Since(start)

	p.mu.Lock()
	p.inFlight = false
	if p.epoch != epoch {
		p.mu.Unlock()
		p.logger.Info("stale stage completion discarded", zap.String("stage", st.Key))
		return
	}

	p.metrics.StageTotal.WithLabelValues(string(p.def.Module), st.Key).Inc()

	if err != nil {
		p.cursor = onFail
		p.mu.Unlock()
		p.metrics.StageDuration.WithLabelValues(string(p.def.Module), st.Key, "error").Observe(took.Seconds())
		p.metrics.GatewayErrors.WithLabelValues(string(p.def.Module)).Inc()
		note := st.TransportNote
		if note == "" {
			note = st.FailureNote
		}
		p.notifier.Error(note)
		p.logger.Warn("stage transport failure", zap.String("stage", st.Key), zap.Error(err))
		return
	}

	if !res.Ok() {
		p.cursor = onFail
		p.mu.Unlock()
		p.metrics.StageDuration.WithLabelValues(string(p.def.Module), st.Key, "failed").Observe(took.Seconds())
		msg := res.FailureMessage()
		if msg == "" {
			msg = st.FailureNote
		}
		p.notifier.Error(msg)
		p.logger.Warn("stage rejected by agent", zap.String("stage", st.Key), zap.String("reason", msg))
		return
	}

	result := res.Response.Result
	p.results[st.Key] = result
	p.cursor = onSuccess
	p.mu.Unlock()

	p.metrics.StageDuration.WithLabelValues(string(p.def.Module), st.Key, "success").Observe(took.Seconds())

	decision := st.FixedDecision
	if decision == "" {
		decision = normalize.Decision(result, st.DecisionKeys...)
	}
	p.ledger.Append(audit.Entry{
		Module:   p.def.Module,
		Action:   st.Action,
		Agent:    st.AgentName,
		Decision: decision,
		User:     p.operator,
		Details:  result,
	})
	p.notifier.Success(st.SuccessNote)
	p.logger.Info("stage completed",
		zap.String("stage", st.Key),
		zap.String("decision", decision),
		zap.Duration("took", took))
}

// Reset возвращает конвейер к форме. Форма и документы сохраняются,
// результаты шагов очищаются. Вызов в полете не прерывается, но его
// завершение уже не повлияет на состояние.
func (p *Process) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++
	p.cursor = StepSubmit
	p.results = make(map[string]normalize.Result)
	p.logger.Info("workflow reset")
}

// Decide фиксирует ручное решение оператора по финальному результату.
func (p *Process) Decide(approve bool) audit.Entry {
	ta := p.def.Reject
	if approve {
		ta = p.def.Approve
	}

	p.mu.Lock()
	final := p.results[p.def.Final.Key]
	p.mu.Unlock()

	decision := ta.Decision
	if decision == "" {
		decision = normalize.Text(final, p.def.Final.DecisionKeys...)
	}
	entry := p.ledger.Append(audit.Entry{
		Module:   p.def.Module,
		Action:   ta.Action,
		Agent:    p.operator,
		Decision: decision,
		User:     p.operator,
	})
	p.notifier.Notify(ta.Note, ta.Kind)
	return entry
}

// AttachDocument добавляет имя загруженного документа к заявке.
func (p *Process) AttachDocument(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs = append(p.docs, name)
}

// SetDocuments задает полный список документов (начальное наполнение).
func (p *Process) SetDocuments(names []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs = append([]string(nil), names...)
}

// SetForm задает форму без запуска анализа (черновик).
func (p *Process) SetForm(form any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = form
}

// Snapshot возвращает копию текущего состояния.
func (p *Process) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make(map[string]normalize.Result, len(p.results))
	for k, v := range p.results {
		results[k] = v
	}
	return Snapshot{
		Module:  p.def.Module,
		Steps:   append([]string(nil), p.def.Steps...),
		Cursor:  p.cursor,
		Busy:    p.inFlight,
		Form:    p.form,
		Docs:    append([]string(nil), p.docs...),
		Results: results,
	}
}

// Module возвращает модуль конвейера.
func (p *Process) Module() domain.Module { return p.def.Module }

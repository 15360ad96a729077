package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xela07ax/askrindo-ai-console/internal/audit"
	"github.com/xela07ax/askrindo-ai-console/internal/connectors"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/normalize"
	"github.com/xela07ax/askrindo-ai-console/internal/notify"
	"go.uber.org/zap"
)

type gatewayCall struct {
	prompt  string
	agentID string
}

type scriptedReply struct {
	res *connectors.InvokeResult
	err error
}

// scriptedGateway отдает ответы по очереди и запоминает вызовы.
// Канал block (если задан) держит вызов в полете до разблокировки.
type scriptedGateway struct {
	mu      sync.Mutex
	calls   []gatewayCall
	replies []scriptedReply
	block   chan struct{}
}

func (g *scriptedGateway) Invoke(ctx context.Context, prompt, agentID string) (*connectors.InvokeResult, error) {
	g.mu.Lock()
	g.calls = append(g.calls, gatewayCall{prompt: prompt, agentID: agentID})
	var reply scriptedReply
	if len(g.replies) > 0 {
		reply = g.replies[0]
		g.replies = g.replies[1:]
	} else {
		reply.err = errors.New("script exhausted")
	}
	block := g.block
	g.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return reply.res, reply.err
}

func (g *scriptedGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *scriptedGateway) lastCall() gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

func fullEnvelope(result normalize.Result) *connectors.InvokeResult {
	return &connectors.InvokeResult{
		Success:  true,
		Response: &connectors.Response{Result: result},
	}
}

func newUnderwriting(gw connectors.Gateway, ledger *audit.Ledger, n *notify.Notifier) *Process {
	p := NewProcess(Underwriting("risk-agent", "policy-agent"), gw, ledger, n, nil, "Admin", zap.NewNop())
	p.SetForm(domain.SampleUnderwritingForm())
	p.SetDocuments(domain.SampleUnderwritingDocuments())
	return p
}

func newClaims(gw connectors.Gateway, ledger *audit.Ledger, n *notify.Notifier) *Process {
	p := NewProcess(Claims("fraud-agent", "decision-agent"), gw, ledger, n, nil, "Admin", zap.NewNop())
	p.SetForm(domain.SampleClaimForm())
	p.SetDocuments(domain.SampleClaimDocuments())
	return p
}

func TestUnderwritingHappyPath(t *testing.T) {
	gw := &scriptedGateway{replies: []scriptedReply{
		{res: fullEnvelope(normalize.Result{
			"risk_score":               float64(82),
			"risk_level":               "MODERATE",
			"decision":                 "APPROVE",
			"recommendation_rationale": "Stable financials",
			"suggested_conditions":     []any{"Quarterly reporting", "Annual review"},
		})},
		{res: fullEnvelope(normalize.Result{"policy_number": "ASK-TCI-100500"})},
	}}
	ledger := audit.NewLedger(zap.NewNop())
	notifier := notify.New(time.Minute, zap.NewNop())
	p := newUnderwriting(gw, ledger, notifier)

	if err := p.Submit(context.Background(), domain.SampleUnderwritingForm()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	snap := p.Snapshot()
	if snap.Cursor != StepReview {
		t.Errorf("cursor = %d after analysis, want %d", snap.Cursor, StepReview)
	}
	if snap.Busy {
		t.Error("process still busy after synchronous Submit")
	}
	if _, ok := snap.Results["risk_assessment"]; !ok {
		t.Error("risk_assessment result missing from snapshot")
	}

	riskCall := gw.lastCall()
	if riskCall.agentID != "risk-agent" {
		t.Errorf("agent id = %s, want risk-agent", riskCall.agentID)
	}
	if !strings.Contains(riskCall.prompt, "Rp 5.000.000.000") {
		t.Errorf("prompt lacks formatted coverage amount:\n%s", riskCall.prompt)
	}
	if !strings.Contains(riskCall.prompt, "KTP_Direktur.pdf, Laporan_Keuangan_2025.pdf") {
		t.Error("prompt lacks uploaded documents")
	}

	entries := ledger.List(domain.ModuleUnderwriting)
	if len(entries) != 1 {
		t.Fatalf("ledger holds %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Action != "Risk Assessment Completed" || e.Agent != "Underwriting Risk Analyzer" || e.Decision != "APPROVE" {
		t.Errorf("audit entry = %+v", e)
	}
	if e.Details["risk_score"] != float64(82) {
		t.Error("audit details do not carry the raw agent result")
	}

	// Финализация поверх принятой оценки
	if err := p.Advance(context.Background()); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	snap = p.Snapshot()
	if snap.Cursor != StepFinal {
		t.Errorf("cursor = %d after finalize, want %d", snap.Cursor, StepFinal)
	}

	draftCall := gw.lastCall()
	if draftCall.agentID != "policy-agent" {
		t.Errorf("agent id = %s, want policy-agent", draftCall.agentID)
	}
	if !strings.Contains(draftCall.prompt, "Risk Score: 82/100") {
		t.Errorf("finalize prompt lacks prior risk score:\n%s", draftCall.prompt)
	}
	if !strings.Contains(draftCall.prompt, "Quarterly reporting,Annual review") {
		t.Error("finalize prompt lacks joined suggested conditions")
	}

	entries = ledger.List(domain.ModuleUnderwriting)
	if len(entries) != 2 {
		t.Fatalf("ledger holds %d entries, want 2", len(entries))
	}
	if entries[0].Decision != "Draft Created" {
		t.Errorf("finalize decision = %q, want Draft Created", entries[0].Decision)
	}
}

func TestSubmitSoftFailureRollsBack(t *testing.T) {
	gw := &scriptedGateway{replies: []scriptedReply{
		{res: &connectors.InvokeResult{Success: false, Error: "timeout"}},
	}}
	ledger := audit.NewLedger(zap.NewNop())
	notifier := notify.New(time.Minute, zap.NewNop())
	p := newUnderwriting(gw, ledger, notifier)

	if err := p.Submit(context.Background(), domain.SampleUnderwritingForm()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	snap := p.Snapshot()
	if snap.Cursor != StepSubmit {
		t.Errorf("cursor = %d after soft failure, want %d", snap.Cursor, StepSubmit)
	}
	if len(snap.Results) != 0 {
		t.Error("failed stage left results behind")
	}
	if ledger.Len() != 0 {
		t.Error("failed stage must not be audited")
	}
	cur, ok := notifier.Current()
	if !ok || cur.Kind != notify.KindError || cur.Message != "timeout" {
		t.Errorf("notification = %+v, want error/timeout", cur)
	}
}

func TestSubmitTransportErrorUsesNetworkNote(t *testing.T) {
	gw := &scriptedGateway{replies: []scriptedReply{
		{err: errors.New("connection refused")},
	}}
	ledger := audit.NewLedger(zap.NewNop())
	notifier := notify.New(time.Minute, zap.NewNop())
	p := newUnderwriting(gw, ledger, notifier)

	if err := p.Submit(context.Background(), domain.SampleUnderwritingForm()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if snap := p.Snapshot(); snap.Cursor != StepSubmit {
		t.Errorf("cursor = %d, want %d", snap.Cursor, StepSubmit)
	}
	cur, ok := notifier.Current()
	if !ok || cur.Message != "Risk analysis failed due to network error" {
		t.Errorf("notification = %+v", cur)
	}
}

func TestAdvanceFailureKeepsAnalysis(t *testing.T) {
	gw := &scriptedGateway{replies: []scriptedReply{
		{res: fullEnvelope(normalize.Result{"decision": "APPROVE", "risk_score": float64(70)})},
		{res: &connectors.InvokeResult{Success: false, Error: "draft service unavailable"}},
	}}
	ledger := audit.NewLedger(zap.NewNop())
	notifier := notify.New(time.Minute, zap.NewNop())
	p := newUnderwriting(gw, ledger, notifier)

	p.Submit(context.Background(), domain.SampleUnderwritingForm())
	p.Advance(context.Background())

	snap := p.Snapshot()
	if snap.Cursor != StepReview {
		t.Errorf("cursor = %d after finalize failure, want %d", snap.Cursor, StepReview)
	}
	if _, ok := snap.Results["risk_assessment"]; !ok {
		t.Error("finalize failure must not discard the analysis result")
	}
	if ledger.Len() != 1 {
		t.Errorf("ledger holds %d entries, want only the analysis one", ledger.Len())
	}
}

func TestAdvanceWithoutAnalysisIsNoOp(t *testing.T) {
	gw := &scriptedGateway{}
	p := newUnderwriting(gw, audit.NewLedger(zap.NewNop()), notify.New(time.Minute, zap.NewNop()))

	if err := p.Advance(context.Background()); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if gw.callCount() != 0 {
		t.Error("Advance without analysis must not call the gateway")
	}
	if snap := p.Snapshot(); snap.Cursor != StepSubmit {
		t.Errorf("cursor = %d, want untouched %d", snap.Cursor, StepSubmit)
	}
}

func TestClaimsDecisionKeys(t *testing.T) {
	gw := &scriptedGateway{replies: []scriptedReply{
		{res: fullEnvelope(normalize.Result{
			"fraud_score":         float64(70),
			"risk_level":          "HIGH",
			"overall_assessment":  "Suspicious timing",
			"recommended_actions": []any{"Manual review"},
		})},
		{res: fullEnvelope(normalize.Result{"decision_label": "APPROVE_PARTIAL", "approved_amount": "200000000"})},
	}}
	ledger := audit.NewLedger(zap.NewNop())
	notifier := notify.New(time.Minute, zap.NewNop())
	p := newClaims(gw, ledger, notifier)

	p.Submit(context.Background(), domain.SampleClaimForm())

	entries := ledger.List(domain.ModuleClaims)
	if len(entries) != 1 || entries[0].Decision != "HIGH" {
		t.Fatalf("fraud audit decision = %+v, want HIGH", entries)
	}
	if !strings.Contains(gw.lastCall().prompt, "Rp 450.000.000") {
		t.Error("fraud prompt lacks formatted claimed amount")
	}

	p.Advance(context.Background())
	entries = ledger.List(domain.ModuleClaims)
	if len(entries) != 2 || entries[0].Decision != "APPROVE_PARTIAL" {
		t.Fatalf("decision audit = %+v, want APPROVE_PARTIAL first", entries)
	}
	if !strings.Contains(gw.lastCall().prompt, "Fraud Score: 70%") {
		t.Error("decision prompt lacks prior fraud score")
	}

	// Ручное утверждение наследует decision_label финального результата
	e := p.Decide(true)
	if e.Action != "Claim Approved" || e.Agent != "Admin" || e.Decision != "APPROVE_PARTIAL" {
		t.Errorf("terminal entry = %+v", e)
	}
}

func TestSubmitWhileInFlightIsBusy(t *testing.T) {
	block := make(chan struct{})
	gw := &scriptedGateway{
		block: block,
		replies: []scriptedReply{
			{res: fullEnvelope(normalize.Result{"decision": "APPROVE"})},
		},
	}
	p := newUnderwriting(gw, audit.NewLedger(zap.NewNop()), notify.New(time.Minute, zap.NewNop()))

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background(), domain.SampleUnderwritingForm()) }()

	// Дожидаемся, пока первый вызов реально уйдет в шлюз
	deadline := time.Now().Add(2 * time.Second)
	for gw.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	if err := p.Submit(context.Background(), domain.SampleUnderwritingForm()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit error = %v, want ErrBusy", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit error = %v", err)
	}
	if gw.callCount() != 1 {
		t.Errorf("gateway called %d times, want 1", gw.callCount())
	}
}

func TestResetDiscardsInFlightCompletion(t *testing.T) {
	block := make(chan struct{})
	gw := &scriptedGateway{
		block: block,
		replies: []scriptedReply{
			{res: fullEnvelope(normalize.Result{"decision": "APPROVE"})},
		},
	}
	ledger := audit.NewLedger(zap.NewNop())
	p := newUnderwriting(gw, ledger, notify.New(time.Minute, zap.NewNop()))

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background(), domain.SampleUnderwritingForm()) }()

	deadline := time.Now().Add(2 * time.Second)
	for gw.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	p.Reset()
	close(block)
	<-done

	snap := p.Snapshot()
	if snap.Cursor != StepSubmit || len(snap.Results) != 0 {
		t.Errorf("stale completion mutated state: %+v", snap)
	}
	if ledger.Len() != 0 {
		t.Error("stale completion must not be audited")
	}
	if snap.Busy {
		t.Error("in-flight flag not cleared by stale completion")
	}
}

func TestResetClearsResultsKeepsForm(t *testing.T) {
	gw := &scriptedGateway{replies: []scriptedReply{
		{res: fullEnvelope(normalize.Result{"decision": "REFER"})},
	}}
	p := newUnderwriting(gw, audit.NewLedger(zap.NewNop()), notify.New(time.Minute, zap.NewNop()))

	p.Submit(context.Background(), domain.SampleUnderwritingForm())
	p.AttachDocument("Extra_Collateral.pdf")
	p.Reset()

	snap := p.Snapshot()
	if snap.Cursor != StepSubmit || len(snap.Results) != 0 {
		t.Errorf("reset state = %+v", snap)
	}
	if len(snap.Docs) != len(domain.SampleUnderwritingDocuments())+1 {
		t.Error("reset must keep attached documents")
	}
	if snap.Form == nil {
		t.Error("reset must keep the form")
	}
}

func TestDecideUnderwriting(t *testing.T) {
	ledger := audit.NewLedger(zap.NewNop())
	notifier := notify.New(time.Minute, zap.NewNop())
	p := newUnderwriting(&scriptedGateway{}, ledger, notifier)

	e := p.Decide(false)
	if e.Action != "Policy Rejected" || e.Decision != "Rejected" || e.Status != audit.StatusCompleted {
		t.Errorf("reject entry = %+v", e)
	}
	cur, ok := notifier.Current()
	if !ok || cur.Kind != notify.KindInfo || cur.Message != "Policy rejected and logged" {
		t.Errorf("notification = %+v", cur)
	}
}

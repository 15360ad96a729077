package connectors

import (
	"context"
	"fmt"
	"math/rand/v2" // Используем v2 для Go 1.25
	"time"

	"github.com/xela07ax/askrindo-ai-console/internal/normalize"
)

// MockAgentIDs — маршрутные ключи агентов, которые эмулирует заглушка.
type MockAgentIDs struct {
	Chatbot       string
	Risk          string
	PolicyDraft   string
	ClaimFraud    string
	ClaimDecision string
}

// MockGateway эмулирует агентскую платформу для локальной разработки
// и демо без внешних зависимостей.
type MockGateway struct {
	ids MockAgentIDs
}

func NewMockGateway(ids MockAgentIDs) *MockGateway {
	return &MockGateway{ids: ids}
}

func (m *MockGateway) Invoke(ctx context.Context, prompt, agentID string) (*InvokeResult, error) {
	// Имитируем задержку 50-300мс
	latency := time.Duration(50+rand.IntN(250)) * time.Millisecond

	select {
	case <-time.After(latency):
		// Имитация работы
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	switch agentID {
	case m.ids.Chatbot:
		return ok(normalize.Result{
			"answer":             "Askrindo Trade Credit Insurance protects sellers against buyer default. Standard coverage is up to 85% of the invoice value with a tenor of up to 180 days.",
			"product_referenced": "Trade Credit Insurance",
			"confidence":         0.92,
		}), nil

	case m.ids.Risk:
		return ok(normalize.Result{
			"risk_score":               82,
			"risk_level":               "MODERATE",
			"decision":                 "APPROVE",
			"recommendation_rationale": "Applicant operates in a stable manufacturing segment with adequate collateral. Coverage amount is within standard treaty capacity.",
			"suggested_conditions":     []string{"Quarterly financial reporting", "Coverage review after 12 months"},
		}), nil

	case m.ids.PolicyDraft:
		return ok(normalize.Result{
			"policy_number":  fmt.Sprintf("ASK-TCI-%d", 100000+rand.IntN(899999)),
			"premium_amount": "125000000",
			"summary":        "Trade credit policy drafted with standard exclusions and a 30-day claim notification window.",
		}), nil

	case m.ids.ClaimFraud:
		return ok(normalize.Result{
			"fraud_score":         18,
			"risk_level":          "LOW",
			"overall_assessment":  "Claim documents are consistent with the reported incident. No anomalies detected in the submission pattern.",
			"recommended_actions": []string{"Proceed to decision", "Standard document verification"},
		}), nil

	case m.ids.ClaimDecision:
		return ok(normalize.Result{
			"decision_label":  "APPROVE_FULL",
			"approved_amount": "750000000",
			"rationale":       "Loss is covered under the policy terms and the fraud screen returned low risk.",
		}), nil

	default:
		return nil, fmt.Errorf("agent %s not supported by mock gateway", agentID)
	}
}

func ok(result normalize.Result) *InvokeResult {
	return &InvokeResult{
		Success:  true,
		Response: &Response{Result: result},
	}
}

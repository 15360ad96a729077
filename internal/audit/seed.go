package audit

import (
	"time"

	"github.com/xela07ax/askrindo-ai-console/internal/domain"
)

// DemoEntries — стартовое наполнение журнала для демо-режима консоли,
// чтобы дашборд и фильтры не были пустыми до первых реальных действий.
func DemoEntries() []Entry {
	ts := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02T15:04:05", s)
		return t
	}
	return []Entry{
		{ID: "a1", Timestamp: ts("2026-02-19T08:15:00"), Module: domain.ModuleUnderwriting, Action: "Risk Assessment Completed", Agent: "Underwriting Risk Analyzer", Decision: "REFER", User: "Budi Santoso", Status: StatusCompleted},
		{ID: "a2", Timestamp: ts("2026-02-19T08:30:00"), Module: domain.ModuleUnderwriting, Action: "Policy Draft Generated", Agent: "Policy Draft Agent", Decision: "Draft Created", User: "Budi Santoso", Status: StatusCompleted},
		{ID: "a3", Timestamp: ts("2026-02-19T09:00:00"), Module: domain.ModuleClaims, Action: "Fraud Analysis Completed", Agent: "Claim Fraud Detector", Decision: "LOW RISK", User: "Sari Dewi", Status: StatusCompleted},
		{ID: "a4", Timestamp: ts("2026-02-19T09:15:00"), Module: domain.ModuleClaims, Action: "Claim Decision Generated", Agent: "Claim Decision Agent", Decision: "APPROVE_FULL", User: "Sari Dewi", Status: StatusCompleted},
		{ID: "a5", Timestamp: ts("2026-02-19T09:45:00"), Module: domain.ModuleChatbot, Action: "Product Inquiry", Agent: "Product Chatbot", Decision: "Answered", User: "Customer", Status: StatusCompleted},
		{ID: "a6", Timestamp: ts("2026-02-19T10:00:00"), Module: domain.ModuleUnderwriting, Action: "Risk Assessment Completed", Agent: "Underwriting Risk Analyzer", Decision: "APPROVE", User: "Budi Santoso", Status: StatusCompleted},
		{ID: "a7", Timestamp: ts("2026-02-19T10:30:00"), Module: domain.ModuleClaims, Action: "Fraud Analysis Completed", Agent: "Claim Fraud Detector", Decision: "MODERATE", User: "Andi Pratama", Status: StatusCompleted},
		{ID: "a8", Timestamp: ts("2026-02-18T14:20:00"), Module: domain.ModuleChatbot, Action: "Product Inquiry", Agent: "Product Chatbot", Decision: "Answered", User: "Agent", Status: StatusCompleted},
		{ID: "a9", Timestamp: ts("2026-02-18T15:00:00"), Module: domain.ModuleUnderwriting, Action: "Application Submitted", Agent: "Underwriting Risk Analyzer", Decision: "DECLINE", User: "Budi Santoso", Status: StatusCompleted},
		{ID: "a10", Timestamp: ts("2026-02-18T16:00:00"), Module: domain.ModuleClaims, Action: "Claim Escalated", Agent: "Claim Decision Agent", Decision: "ESCALATE", User: "Sari Dewi", Status: StatusEscalated},
	}
}

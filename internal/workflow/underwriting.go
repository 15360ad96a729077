package workflow

import (
	"fmt"
	"strings"

	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/normalize"
	"github.com/xela07ax/askrindo-ai-console/internal/notify"
)

// Underwriting собирает конвейер андеррайтинга: оценка риска заявителя,
// затем генерация черновика полиса.
func Underwriting(riskAgentID, policyAgentID string) Definition {
	return Definition{
		Module: domain.ModuleUnderwriting,
		Steps:  []string{"Submit", "Analyze Risk", "Review", "Generate Policy"},
		Analyze: StageSpec{
			Key:           "risk_assessment",
			AgentID:       riskAgentID,
			AgentName:     "Underwriting Risk Analyzer",
			Action:        "Risk Assessment Completed",
			SuccessNote:   "Risk assessment completed successfully",
			FailureNote:   "Risk analysis failed",
			TransportNote: "Risk analysis failed due to network error",
			DecisionKeys:  []string{"decision"},
			Prompt:        underwritingRiskPrompt,
		},
		Final: StageSpec{
			Key:           "policy_draft",
			AgentID:       policyAgentID,
			AgentName:     "Policy Draft Agent",
			Action:        "Policy Draft Generated",
			SuccessNote:   "Policy draft generated successfully",
			FailureNote:   "Policy generation failed",
			FixedDecision: "Draft Created",
			Prompt:        policyDraftPrompt,
		},
		Approve: TerminalAction{
			Action:   "Policy Approved",
			Decision: "Approved",
			Note:     "Policy approved and logged",
			Kind:     notify.KindSuccess,
		},
		Reject: TerminalAction{
			Action:   "Policy Rejected",
			Decision: "Rejected",
			Note:     "Policy rejected and logged",
			Kind:     notify.KindInfo,
		},
	}
}

func underwritingRiskPrompt(form any, docs []string, _ normalize.Result) string {
	f, _ := form.(domain.UnderwritingForm)
	return fmt.Sprintf(`Analyze risk for the following insurance applicant:
- Applicant Name: %s
- Company Registration: %s
- NPWP: %s
- Industry Sector: %s
- Insurance Product: %s
- Coverage Amount: %s
- Tenor: %s months
- Documents Uploaded: %s

Please perform a comprehensive risk assessment including financial health analysis, industry risk evaluation, document verification, and provide a risk score with recommendation.`,
		f.ApplicantName, f.CompanyReg, f.NPWP, f.Industry, f.ProductType,
		domain.FormatRupiah(f.CoverageAmount), f.TenorMonths, strings.Join(docs, ", "))
}

func policyDraftPrompt(form any, _ []string, prior normalize.Result) string {
	f, _ := form.(domain.UnderwritingForm)
	return fmt.Sprintf(`Generate a complete policy draft based on the following approved risk assessment:
- Applicant: %s
- Product Type: %s
- Coverage Amount: %s
- Tenor: %s months
- Risk Score: %s/100
- Risk Level: %s
- Decision: %s
- Rationale: %s
- Suggested Conditions: %s

Generate complete policy terms, premium calculation, conditions, and exclusions.`,
		f.ApplicantName, f.ProductType, domain.FormatRupiah(f.CoverageAmount), f.TenorMonths,
		promptField(prior, "risk_score"),
		promptField(prior, "risk_level"),
		promptField(prior, "decision"),
		promptField(prior, "recommendation_rationale"),
		promptField(prior, "suggested_conditions"))
}

// promptField вставляет поле результата предыдущего шага в промпт:
// списки склеиваются запятой, скаляры — как есть.
func promptField(r normalize.Result, key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch v.(type) {
	case []any, []string:
		return strings.Join(normalize.Strings(v), ",")
	default:
		return normalize.Stringify(v)
	}
}

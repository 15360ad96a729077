package workflow

import (
	"fmt"
	"strings"

	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/normalize"
	"github.com/xela07ax/askrindo-ai-console/internal/notify"
)

// Claims собирает конвейер урегулирования убытков: скрининг на фрод,
// затем генерация решения по выплате.
func Claims(fraudAgentID, decisionAgentID string) Definition {
	return Definition{
		Module: domain.ModuleClaims,
		Steps:  []string{"Submit", "Fraud Check", "Review", "Generate Decision"},
		Analyze: StageSpec{
			Key:          "fraud_assessment",
			AgentID:      fraudAgentID,
			AgentName:    "Claim Fraud Detector",
			Action:       "Fraud Analysis Completed",
			SuccessNote:  "Fraud analysis completed",
			FailureNote:  "Fraud analysis failed",
			DecisionKeys: []string{"risk_level"},
			Prompt:       claimFraudPrompt,
		},
		Final: StageSpec{
			Key:          "claim_decision",
			AgentID:      decisionAgentID,
			AgentName:    "Claim Decision Agent",
			Action:       "Claim Decision Generated",
			SuccessNote:  "Claim decision generated",
			FailureNote:  "Decision generation failed",
			DecisionKeys: []string{"decision_label", "decision"},
			Prompt:       claimDecisionPrompt,
		},
		Approve: TerminalAction{
			Action: "Claim Approved",
			// Decision берется из decision_label финального результата
			Note: "Claim approved and logged",
			Kind: notify.KindSuccess,
		},
		Reject: TerminalAction{
			Action:   "Claim Escalated",
			Decision: "Escalated",
			Note:     "Claim escalated for senior review",
			Kind:     notify.KindInfo,
		},
	}
}

func claimFraudPrompt(form any, docs []string, _ normalize.Result) string {
	f, _ := form.(domain.ClaimForm)
	return fmt.Sprintf(`Analyze the following insurance claim for potential fraud:
- Policy Number: %s
- Claim Type: %s
- Incident Date: %s
- Claimed Amount: %s
- Description: %s
- Evidence Documents: %s

Perform comprehensive fraud analysis including timing indicators, financial indicators, pattern analysis, and document verification.`,
		f.PolicyNumber, f.ClaimType, f.IncidentDate,
		domain.FormatRupiah(f.ClaimedAmount), f.Description, strings.Join(docs, ", "))
}

func claimDecisionPrompt(form any, _ []string, prior normalize.Result) string {
	f, _ := form.(domain.ClaimForm)
	return fmt.Sprintf(`Generate a final claim adjudication decision based on the following fraud analysis:
- Policy Number: %s
- Claim Type: %s
- Claimed Amount: %s
- Fraud Score: %s%%
- Risk Level: %s
- Overall Assessment: %s
- Recommended Actions: %s

Provide a clear decision with payout calculation, rationale, conditions, and compliance status.`,
		f.PolicyNumber, f.ClaimType, domain.FormatRupiah(f.ClaimedAmount),
		promptField(prior, "fraud_score"),
		promptField(prior, "risk_level"),
		promptField(prior, "overall_assessment"),
		promptField(prior, "recommended_actions"))
}

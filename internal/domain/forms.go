package domain

// UnderwritingForm — неизменяемый снимок анкеты заявителя.
// Заполняется оператором до запуска оценки и дальше используется
// только для сборки промптов (движок форму не мутирует).
type UnderwritingForm struct {
	ApplicantName  string `json:"applicant_name"`
	CompanyReg     string `json:"company_reg"`
	NPWP           string `json:"npwp"`
	Industry       string `json:"industry"`
	ProductType    string `json:"product_type"`
	CoverageAmount string `json:"coverage_amount"` // сумма в рупиях, только цифры
	TenorMonths    string `json:"tenor"`
}

// ClaimForm — снимок заявления на выплату.
type ClaimForm struct {
	PolicyNumber  string `json:"policy_number"`
	ClaimType     string `json:"claim_type"`
	IncidentDate  string `json:"incident_date"`
	ClaimedAmount string `json:"claimed_amount"`
	Description   string `json:"description"`
}

// SampleUnderwritingForm возвращает предзаполненную анкету для демо-режима консоли.
func SampleUnderwritingForm() UnderwritingForm {
	return UnderwritingForm{
		ApplicantName:  "PT Maju Bersama",
		CompanyReg:     "AHU-0012345.AH.01.01",
		NPWP:           "01.234.567.8-012.000",
		Industry:       "Construction",
		ProductType:    "Surety Bond",
		CoverageAmount: "5000000000",
		TenorMonths:    "12",
	}
}

// SampleUnderwritingDocuments — стартовый пакет документов заявителя.
func SampleUnderwritingDocuments() []string {
	return []string{"KTP_Direktur.pdf", "Laporan_Keuangan_2025.pdf", "SIUP_NIB.pdf", "Akta_Perusahaan.pdf"}
}

// SampleClaimForm возвращает предзаполненное заявление для демо-режима.
func SampleClaimForm() ClaimForm {
	return ClaimForm{
		PolicyNumber:  "POL-2024-00847",
		ClaimType:     "Performance Bond Default",
		IncidentDate:  "2026-02-10",
		ClaimedAmount: "450000000",
		Description: "The contractor failed to complete the construction project within the agreed timeline. " +
			"Project was delayed by 6 months with only 45% completion. " +
			"The obligee is claiming the full bond amount due to contractor default.",
	}
}

// SampleClaimDocuments — стартовый пакет доказательств по убытку.
func SampleClaimDocuments() []string {
	return []string{"Incident_Report.pdf", "Supporting_Evidence.pdf"}
}

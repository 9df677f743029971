// Package guideline retrieves Bank Negara Malaysia lending guidelines for
// grounding the qualitative assessment. The corpus ships embedded in the
// binary so retrieval works without any external store.
package guideline

// Document is a single BNM guideline passage with its routing metadata.
type Document struct {
	ID       string
	Content  string
	Category string
	Banking  string
	LoanType string
	Product  string
}

// DefaultCorpus returns the embedded BNM guideline passages.
func DefaultCorpus() []Document {
	return []Document{
		{
			ID:       "bnm_dsr_housing_001",
			Content:  "Bank Negara Malaysia DSR Guidelines for Housing Loans: Maximum Debt Service Ratio is 70% for housing loans. The DSR is calculated as (Total Monthly Debt Obligations / Gross Monthly Income) × 100. This applies to all conventional banking housing loans in Malaysia.",
			Category: "DSR",
			Banking:  "conventional",
			LoanType: "housing",
		},
		{
			ID:       "bnm_dsr_personal_001",
			Content:  "BNM Personal Loan DSR Guidelines: For personal loans and credit facilities, the maximum DSR is 60%. Financial institutions must ensure borrowers' total monthly debt repayments do not exceed 60% of their gross monthly income.",
			Category: "DSR",
			Banking:  "conventional",
			LoanType: "personal",
		},
		{
			ID:       "bnm_ltv_residential_001",
			Content:  "Loan-to-Value Ratio for Residential Properties: For properties priced RM500,000 and below, maximum LTV is 90% for first property, 70% for second property, and 70% for third property onwards. For properties above RM500,000, maximum LTV is 80% for first two properties and 70% for third property onwards.",
			Category: "LTV",
			Banking:  "conventional",
		},
		{
			ID:       "bnm_ltv_commercial_001",
			Content:  "Commercial Property LTV Limits: Maximum Loan-to-Value ratio for commercial properties is 80% for first property and 70% for subsequent properties. This applies to shop lots, office buildings, and commercial real estate.",
			Category: "LTV",
			Banking:  "conventional",
		},
		{
			ID:       "bnm_ltv_vehicle_001",
			Content:  "Vehicle Financing LTV Guidelines: For hire-purchase agreements on vehicles, maximum LTV is 90% for first vehicle and 80% for subsequent vehicles. The tenure should not exceed 9 years.",
			Category: "LTV",
			Banking:  "conventional",
		},
		{
			ID:       "bnm_income_requirement_001",
			Content:  "Minimum Income Requirements: For housing loans below RM500,000, minimum monthly income is RM3,000. For loans above RM500,000, minimum monthly income is RM5,000. These requirements ensure borrowers have sufficient income to service the loan.",
			Category: "income",
			Banking:  "conventional",
			LoanType: "housing",
		},
		{
			ID:       "bnm_employment_stability_001",
			Content:  "Employment Stability Requirements: Borrowers should have at least 6 months of continuous employment for personal loans and 12 months for housing loans. Self-employed individuals must provide 2 years of audited financial statements.",
			Category: "employment",
			Banking:  "conventional",
		},
		{
			ID:       "bnm_credit_assessment_001",
			Content:  "Credit Assessment Guidelines: Banks must conduct comprehensive credit assessments including CCRIS and CTOS checks. Borrowers with NPL (Non-Performing Loans) history in the past 12 months may be rejected. Credit score should be above 650 for favorable consideration.",
			Category: "credit_assessment",
			Banking:  "conventional",
		},
		{
			ID:       "bnm_islamic_murabahah_001",
			Content:  "Islamic Banking Murabahah Financing: For Murabahah (cost-plus financing), the profit rate should be competitive with conventional rates. The asset must be Shariah-compliant and physically exist. Maximum financing period is 30 years for property.",
			Category: "shariah",
			Banking:  "islamic",
			Product:  "murabahah",
		},
		{
			ID:       "bnm_islamic_ijarah_001",
			Content:  "Islamic Banking Ijarah (Leasing): Ijarah financing allows asset leasing with option to purchase. Rental rates must be disclosed clearly. Maximum LTV for Ijarah property financing is similar to conventional (80-90% depending on property value and sequence).",
			Category: "shariah",
			Banking:  "islamic",
			Product:  "ijarah",
		},
		{
			ID:       "bnm_islamic_musharakah_001",
			Content:  "Musharakah Partnership Financing: Joint ownership financing where bank and customer co-own the asset. Profit sharing ratio must be agreed upfront. Maximum bank share is 90%. Customer gradually buys out bank's share over time.",
			Category: "shariah",
			Banking:  "islamic",
			Product:  "musharakah",
		},
		{
			ID:       "bnm_islamic_tawarruq_001",
			Content:  "Tawarruq Commodity Murabahah: Personal financing through commodity trading. Customer purchases commodity from bank, sells to third party for cash. Profit margin embedded in transaction. Maximum DSR still applies (60% for personal).",
			Category: "shariah",
			Banking:  "islamic",
			Product:  "tawarruq",
		},
		{
			ID:       "bnm_risk_management_001",
			Content:  "Risk Management Guidelines: Banks must maintain Capital Adequacy Ratio (CAR) of at least 8%. High-risk loans require higher provisioning. Stress testing must be conducted quarterly. Non-performing loans should be below 3% of total portfolio.",
			Category: "risk_management",
			Banking:  "both",
		},
		{
			ID:       "bnm_consumer_protection_001",
			Content:  "Consumer Protection Standards: Banks must provide clear disclosure of all fees and charges. Borrowers have 14-day cooling-off period for housing loans. Early settlement penalties should not exceed 2% of outstanding principal.",
			Category: "consumer_protection",
			Banking:  "both",
		},
		{
			ID:       "bnm_documentation_001",
			Content:  "Required Documentation: Standard documents include IC copy, latest 3 months payslips, 6 months bank statements, EPF statements, property valuation report (for housing), and employment verification letter. Self-employed need business registration and financial statements.",
			Category: "documentation",
			Banking:  "both",
		},
	}
}

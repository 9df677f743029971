package qualitative

import (
	"fmt"
	"strings"

	"github.com/baddebtguard/risk-engine/internal/guideline"
	"github.com/baddebtguard/risk-engine/internal/model"
)

const systemPrompt = `You are an expert Malaysian credit risk analyst. Output structured JSON only.`

// maxDocumentChars bounds the document text sent to the model. Longer text
// is truncated to its head and tail, which keeps both the opening summary
// pages and the closing statements/declarations in view.
const (
	maxDocumentChars  = 12000
	truncateHeadChars = 6000
	truncateTailChars = 6000
)

const promptTemplate = `You are an advanced credit risk engine purpose-built for the Malaysian banking ecosystem.

%s

CONTEXT:
- Banking System: %s
- Loan Type: %s
- Customer Type: %s

%s

DOCUMENTS TO ANALYZE:
"""
%s
"""

Your task is to analyze these documents and provide a structured credit risk assessment.

REQUIRED OUTPUT FORMAT (JSON):

{
  "approval_probability": <float: 0.0 to 100.0>,
  "risk_tier": "<LOW | MEDIUM | HIGH>",
  "executive_summary": "<2-3 sentence summary of the analysis>",
  "findings": [
    {
      "category": "<CATEGORY NAME>",
      "title": "<Finding title>",
      "description": "<Detailed description with evidence>",
      "keywords": ["keyword1", "keyword2", "keyword3"],
      "status": "<positive | warning>"
    }
  ],
  "confidence_metrics": {
    "document_authenticity": <float: 0-100>,
    "income_stability": <float: 0-100>,
    "default_risk": <float: 0-100>,
    "overall_recommendation": <float: 0-100>
  }
}

ANALYSIS STEPS:

1. Document Review: Assess income evidence, debt obligations, employment status, and assets.
2. Qualitative Analysis: Analyze text for behavioral signals and flag inconsistent statements.
3. Guideline Check: Weigh the assessment against the BNM guidelines provided above.
4. Generate Findings: Create 4-5 findings with evidence citations from the provided documents.

IMPORTANT:
- Provide at least 4-5 findings (mix of positive and warnings).
- Each finding must have a clear status (positive/warning).
- Reference Malaysian banking practices and assume reasonable defaults when information is missing. Use the customer type to guide assumptions.
- Output ONLY the JSON structure, and nothing else.`

// bankingGuidance returns wording instructions for the selected regime.
// Islamic financing responses must avoid interest-based terminology.
func bankingGuidance(system model.BankingSystem) string {
	guidance := "General instructions: Use Malaysia-specific banking practices and reference Bank Negara Malaysia guidelines where applicable."
	if system == model.BankingIslamic {
		return guidance + " For Islamic Banking (Shariah-compliant) responses: do not use the term 'interest' or 'riba'. " +
			"Frame pricing as profit-rate or markup, reference common Islamic financing contracts (e.g., Murabaha, Ijara, Musawamah), " +
			"consider takaful as an insurance alternative, and ensure recommendations align with Shariah principles and typical Malaysian Islamic banking practice."
	}
	return guidance + " For Conventional Banking responses: use standard interest-based terminology, conventional risk-premium calculations, and reference typical Malaysian banking practices."
}

// truncateDocument bounds document text to maxDocumentChars, keeping the
// head and tail when over the limit.
func truncateDocument(text string) string {
	if strings.TrimSpace(text) == "" {
		return "[NO DOCUMENT TEXT PROVIDED]"
	}
	if len(text) <= maxDocumentChars {
		return text
	}
	return text[:truncateHeadChars] +
		"\n\n[... Content truncated for length ...]\n\n" +
		text[len(text)-truncateTailChars:]
}

// buildPrompt assembles the user prompt from the document text, retrieved
// guidelines, and analysis context.
func buildPrompt(rawText string, guidelines []model.GuidelineSnippet, rctx model.AnalysisContext) string {
	return fmt.Sprintf(promptTemplate,
		guideline.FormatContext(guidelines, rctx),
		rctx.BankingSystem.Label(),
		rctx.LoanType.Label(),
		rctx.CustomerType.Label(),
		bankingGuidance(rctx.BankingSystem),
		truncateDocument(rawText),
	)
}

package qualitative

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// rawAssessment mirrors the JSON contract with loose types so a partially
// malformed response can still be coerced field by field.
type rawAssessment struct {
	ApprovalProbability *float64     `json:"approval_probability"`
	RiskTier            string       `json:"risk_tier"`
	ExecutiveSummary    string       `json:"executive_summary"`
	Findings            []rawFinding `json:"findings"`
	ConfidenceMetrics   *rawMetrics  `json:"confidence_metrics"`
}

type rawFinding struct {
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Status      string   `json:"status"`
}

type rawMetrics struct {
	DocumentAuthenticity  *float64 `json:"document_authenticity"`
	IncomeStability       *float64 `json:"income_stability"`
	DefaultRisk           *float64 `json:"default_risk"`
	OverallRecommendation *float64 `json:"overall_recommendation"`
}

// cleanJSON strips markdown code fences and surrounding prose so that a
// response like "```json\n{...}\n```" or "Here is the JSON: {...}" still
// parses. Returns the substring from the first '{' to the last '}'.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeTier maps tier strings from the model to the enum. Tolerates
// "LOW RISK" style labels and mixed case. Unknown values fall back to MEDIUM.
func normalizeTier(s string) model.RiskTier {
	t := strings.ToUpper(strings.TrimSpace(s))
	t = strings.TrimSuffix(t, " RISK")
	switch t {
	case "LOW":
		return model.RiskLow
	case "MEDIUM":
		return model.RiskMedium
	case "HIGH":
		return model.RiskHigh
	default:
		return model.RiskMedium
	}
}

// parseAssessment parses and coerces the model's JSON response into a
// QualitativeAssessment. Individual invalid fields are coerced to defaults;
// only an unparseable response returns an error.
func parseAssessment(text string, rctx model.AnalysisContext) (*model.QualitativeAssessment, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil, eris.New("qualitative: response contains no JSON object")
	}

	var raw rawAssessment
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, eris.Wrap(err, "qualitative: parse response")
	}

	out := &model.QualitativeAssessment{
		RiskTier:         normalizeTier(raw.RiskTier),
		ExecutiveSummary: strings.TrimSpace(raw.ExecutiveSummary),
	}

	if raw.ApprovalProbability != nil {
		out.ApprovalProbability = clamp(*raw.ApprovalProbability, 0, 100)
	} else {
		zap.L().Warn("qualitative: response missing approval_probability, defaulting to 50")
		out.ApprovalProbability = 50
	}

	out.Findings = coerceFindings(raw.Findings, rctx)

	out.ConfidenceMetrics = coerceMetrics(raw.ConfidenceMetrics, out.ApprovalProbability)

	if out.ExecutiveSummary == "" {
		out.ExecutiveSummary = defaultSummary(rctx, out.RiskTier)
	}

	return out, nil
}

// minFindings is the minimum finding count a usable assessment carries.
// Thinner responses are replaced with the default finding set.
const minFindings = 4

func coerceFindings(raw []rawFinding, rctx model.AnalysisContext) []model.Finding {
	if len(raw) < minFindings {
		zap.L().Warn("qualitative: response has too few findings, substituting defaults",
			zap.Int("count", len(raw)),
		)
		return defaultFindings(rctx)
	}

	findings := make([]model.Finding, 0, len(raw))
	for _, f := range raw {
		out := model.Finding{
			Category:    strings.TrimSpace(f.Category),
			Title:       strings.TrimSpace(f.Title),
			Description: strings.TrimSpace(f.Description),
			Keywords:    f.Keywords,
		}
		if len(out.Keywords) == 0 {
			out.Keywords = []string{"Analysis", "Risk Assessment", "Documentation"}
		}
		switch strings.ToLower(strings.TrimSpace(f.Status)) {
		case string(model.FindingWarning):
			out.Status = model.FindingWarning
		default:
			out.Status = model.FindingPositive
		}
		findings = append(findings, out)
	}
	return findings
}

func coerceMetrics(raw *rawMetrics, approvalProbability float64) model.ConfidenceMetrics {
	m := model.ConfidenceMetrics{
		DocumentAuthenticity:  95,
		IncomeStability:       92,
		DefaultRisk:           90,
		OverallRecommendation: approvalProbability,
	}
	if raw == nil {
		return m
	}
	if raw.DocumentAuthenticity != nil {
		m.DocumentAuthenticity = clamp(*raw.DocumentAuthenticity, 0, 100)
	}
	if raw.IncomeStability != nil {
		m.IncomeStability = clamp(*raw.IncomeStability, 0, 100)
	}
	if raw.DefaultRisk != nil {
		m.DefaultRisk = clamp(*raw.DefaultRisk, 0, 100)
	}
	if raw.OverallRecommendation != nil {
		m.OverallRecommendation = clamp(*raw.OverallRecommendation, 0, 100)
	}
	return m
}

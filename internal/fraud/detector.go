// Package fraud evaluates a financial profile and raw document text
// against a fixed set of independent heuristics. Every signal is advisory:
// the detector never fails a request, and signals whose inputs are missing
// are skipped rather than triggered.
package fraud

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// Signal penalty weights. The total score is the clamped sum, so each
// heuristic contributes independently.
const (
	penaltyDuplicateContent  = 15
	penaltyInconsistentFmt   = 10
	penaltyHighIncome        = 20
	penaltyLowIncome         = 15
	penaltyMissingField      = 10
	penaltyFutureDate        = 25
	penaltyCorrections       = 15
	penaltyRoundNumbers      = 10
	penaltyIncomeMismatch    = 20
	penaltyImplausibleDSR    = 15
)

var (
	amountRe     = regexp.MustCompile(`RM\s*[\d,]+\.?\d*`)
	incomeRe     = regexp.MustCompile(`(?i)income\D*?RM\s*([\d,]+)`)
	dateRe       = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/](\d{2,4})`)
	correctionRe = regexp.MustCompile(`(?i)\*+|correction|amended|updated`)
	numberRe     = regexp.MustCompile(`\d+`)
	currencyRe   = regexp.MustCompile(`RM\s*[\d,]+`)
)

// requiredDocFields are the identity/financial fields a genuine loan
// document set is expected to mention somewhere.
var requiredDocFields = []string{"name", "income", "employment", "address"}

// Detector runs the fraud heuristics. now is injectable for the
// future-date check.
type Detector struct {
	now func() time.Time
}

// New returns a Detector using the wall clock.
func New() *Detector {
	return &Detector{now: time.Now}
}

// NewAt returns a Detector with a fixed clock, for tests.
func NewAt(now func() time.Time) *Detector {
	return &Detector{now: now}
}

// Detect runs every heuristic over the profile and raw text and returns
// the combined assessment. Pure function of its inputs; never errors.
func (d *Detector) Detect(profile model.FinancialProfile, rawText string) model.FraudAssessment {
	var signals []model.FraudSignal
	score := 0

	add := func(s model.FraudSignal, penalty int) {
		signals = append(signals, s)
		score += penalty
	}

	// Repeated blocks suggest copy-paste assembly.
	if dupes := duplicateLines(rawText); dupes > 5 {
		add(model.FraudSignal{
			Name:     "duplicate_content",
			Severity: model.SeverityMedium,
			Evidence: fmt.Sprintf("%d duplicated text blocks", dupes),
		}, penaltyDuplicateContent)
	}

	// Amounts formatted inconsistently across a document set point to
	// figures edited in from different sources.
	if formats := amountFormats(rawText); formats > 3 {
		add(model.FraudSignal{
			Name:     "inconsistent_number_formatting",
			Severity: model.SeverityLow,
			Evidence: fmt.Sprintf("%d distinct amount formats", formats),
		}, penaltyInconsistentFmt)
	}

	// Implausible stated income in the text itself.
	for _, m := range incomeRe.FindAllStringSubmatch(rawText, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if v > 100000 {
			add(model.FraudSignal{
				Name:     "implausibly_high_income",
				Severity: model.SeverityHigh,
				Evidence: fmt.Sprintf("stated income RM %s/month", m[1]),
			}, penaltyHighIncome)
			break
		}
		if v > 0 && v < 1000 {
			add(model.FraudSignal{
				Name:     "suspiciously_low_income",
				Severity: model.SeverityMedium,
				Evidence: fmt.Sprintf("stated income RM %s/month", m[1]),
			}, penaltyLowIncome)
			break
		}
	}

	// Income stated in text far from the extracted profile figure.
	// Only evaluable when both sides are present.
	if profile.MonthlyIncome > 0 {
		if m := incomeRe.FindStringSubmatch(rawText); m != nil {
			v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err == nil && v > 0 {
				ratio := v / profile.MonthlyIncome
				if ratio > 1.5 || ratio < 0.67 {
					add(model.FraudSignal{
						Name:     "income_inconsistency",
						Severity: model.SeverityHigh,
						Evidence: fmt.Sprintf("text states RM %.0f/month, profile has RM %.0f/month", v, profile.MonthlyIncome),
					}, penaltyIncomeMismatch)
				}
			}
		}
	}

	// Missing critical fields across the whole document set.
	var missing []string
	lower := strings.ToLower(rawText)
	for _, field := range requiredDocFields {
		if !strings.Contains(lower, field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 1 {
		add(model.FraudSignal{
			Name:     "missing_critical_fields",
			Severity: model.SeverityMedium,
			Evidence: "missing: " + strings.Join(missing, ", "),
		}, penaltyMissingField*len(missing))
	}

	// Future-dated documents.
	if evidence, ok := d.futureDate(rawText); ok {
		add(model.FraudSignal{
			Name:     "future_dated_document",
			Severity: model.SeverityHigh,
			Evidence: evidence,
		}, penaltyFutureDate)
	}

	// Correction/amendment markers beyond normal levels.
	if n := len(correctionRe.FindAllString(rawText, -1)); n > 3 {
		add(model.FraudSignal{
			Name:     "excessive_corrections",
			Severity: model.SeverityMedium,
			Evidence: fmt.Sprintf("%d correction/amendment markers", n),
		}, penaltyCorrections)
	}

	// All key figures being round numbers is unusual for genuine bank
	// statements. Only evaluable when the profile has figures at all.
	if round, total := roundFigures(profile); total >= 3 && round == total {
		add(model.FraudSignal{
			Name:     "suspicious_round_amounts",
			Severity: model.SeverityLow,
			Evidence: fmt.Sprintf("all %d profile figures are round thousands", total),
		}, penaltyRoundNumbers)
	}

	// DSR implausible for a stated salaried occupation.
	if profile.MonthlyIncome > 0 && strings.Contains(lower, "salaried") {
		dsr := profile.MonthlyDebt / profile.MonthlyIncome * 100
		if dsr > 120 {
			add(model.FraudSignal{
				Name:     "implausible_dsr_for_occupation",
				Severity: model.SeverityMedium,
				Evidence: fmt.Sprintf("DSR %.0f%% against salaried income", dsr),
			}, penaltyImplausibleDSR)
		}
	}

	if score > 100 {
		score = 100
	}

	return model.FraudAssessment{
		Score:                  score,
		TriggeredSignals:       signals,
		AuthenticityConfidence: 100 - score,
		DocumentQuality:        qualityScore(rawText),
	}
}

// duplicateLines counts repeated non-blank lines.
func duplicateLines(text string) int {
	lines := strings.Split(text, "\n")
	seen := make(map[string]bool, len(lines))
	nonBlank := 0
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		nonBlank++
		seen[l] = true
	}
	return nonBlank - len(seen)
}

// amountFormats counts distinct leading-digit groupings among RM amounts.
func amountFormats(text string) int {
	amounts := amountRe.FindAllString(text, -1)
	if len(amounts) == 0 {
		return 0
	}
	formats := make(map[string]bool)
	for _, a := range amounts {
		a = strings.TrimSpace(strings.TrimPrefix(a, "RM"))
		if len(a) > 3 {
			a = a[:3]
		}
		formats[a] = true
	}
	return len(formats)
}

func (d *Detector) futureDate(text string) (string, bool) {
	matches := dateRe.FindAllStringSubmatch(text, -1)
	if len(matches) <= 3 {
		// Too few dates to judge document-set consistency.
		return "", false
	}
	currentYear := d.now().Year()
	for _, m := range matches {
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if year < 100 {
			year += 2000
		}
		if year > currentYear {
			return fmt.Sprintf("document dated %s", m[0]), true
		}
	}
	return "", false
}

func roundFigures(p model.FinancialProfile) (round, total int) {
	for _, v := range []float64{p.MonthlyIncome, p.MonthlyDebt, p.LoanAmount, p.PropertyValue, p.Savings} {
		if v <= 0 {
			continue
		}
		total++
		if int64(v)%1000 == 0 && v == float64(int64(v)) {
			round++
		}
	}
	return round, total
}

// qualityScore rates document completeness 0-100 from length, numeric
// density, currency mentions, and presence of key financial terms.
func qualityScore(text string) int {
	words := strings.Fields(text)
	wordCount := len(words)
	if wordCount == 0 {
		return 0
	}

	score := 0
	if wordCount > 100 {
		score += 20
	}
	if wordCount > 500 {
		score += 10
	}

	numbers := numberRe.FindAllString(text, -1)
	density := float64(len(numbers)) / float64(wordCount) * 100
	if density > 5 {
		score += 20
	}
	if density > 10 {
		score += 10
	}

	currency := len(currencyRe.FindAllString(text, -1))
	if currency > 5 {
		score += 20
	}
	if currency > 10 {
		score += 10
	}

	if len(strings.Split(text, "\n")) > 20 {
		score += 10
	}

	lower := strings.ToLower(text)
	for _, kw := range []string{"income", "employment", "debt", "loan", "bank"} {
		if strings.Contains(lower, kw) {
			score += 2
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

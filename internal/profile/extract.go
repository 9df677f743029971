package profile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// Pattern sets for best-effort extraction of RM amounts from document
// text. First match wins per field; debt patterns accumulate.
var (
	incomePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)monthly\s+(?:salary|income|earning)\D*?RM\s*([\d,]+)`),
		regexp.MustCompile(`(?i)income\D*?RM\s*([\d,]+)`),
		regexp.MustCompile(`(?i)salary\D*?RM\s*([\d,]+)`),
	}

	debtPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:loan|debt|payment)\D*?RM\s*([\d,]+)\D*?(?:month|monthly)`),
		regexp.MustCompile(`(?i)monthly\s+(?:payment|commitment|instal?lment)\D*?RM\s*([\d,]+)`),
	}

	employmentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:employment|worked|working)\D*?(\d+)\s+years?`),
		regexp.MustCompile(`(?i)(\d+)\s+years?\D*?(?:employment|experience)`),
	}

	propertyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)property\s+value\D*?RM\s*([\d,]+)`),
		regexp.MustCompile(`(?i)valuation\D*?RM\s*([\d,]+)`),
		regexp.MustCompile(`(?i)purchase\s+price\D*?RM\s*([\d,]+)`),
	}

	loanAmountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)loan\s+amount\D*?RM\s*([\d,]+)`),
		regexp.MustCompile(`(?i)financing\D*?RM\s*([\d,]+)`),
		regexp.MustCompile(`(?i)requested\D*?RM\s*([\d,]+)`),
	}

	savingsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)savings\D*?RM\s*([\d,]+)`),
		regexp.MustCompile(`(?i)bank\s+balance\D*?RM\s*([\d,]+)`),
	}
)

// ExtractFinancials pulls financial figures out of raw document text.
// Every field defaults to 0 when no pattern matches; it never errors.
func ExtractFinancials(text string) model.FinancialProfile {
	var p model.FinancialProfile

	p.MonthlyIncome = firstAmount(incomePatterns, text)
	p.LoanAmount = firstAmount(loanAmountPatterns, text)
	p.PropertyValue = firstAmount(propertyPatterns, text)
	p.Savings = firstAmount(savingsPatterns, text)
	p.EmploymentYears = firstAmount(employmentPatterns, text)

	// Debt obligations are summed across all matches: an applicant can
	// carry several monthly commitments.
	for _, re := range debtPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			p.MonthlyDebt += parseAmount(m[1])
		}
	}

	return p
}

func firstAmount(patterns []*regexp.Regexp, text string) float64 {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return parseAmount(m[1])
		}
	}
	return 0
}

func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

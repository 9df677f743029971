package model

import "github.com/rotisserie/eris"

// BankingSystem selects the regulatory regime the assessment runs under.
type BankingSystem string

const (
	BankingConventional BankingSystem = "conventional"
	BankingIslamic      BankingSystem = "islamic"
)

// AllBankingSystems returns all defined banking systems.
func AllBankingSystems() []BankingSystem {
	return []BankingSystem{BankingConventional, BankingIslamic}
}

// LoanType represents the financing product being applied for.
type LoanType string

const (
	LoanTypeHome     LoanType = "home"
	LoanTypeCar      LoanType = "car"
	LoanTypePersonal LoanType = "personal"
	LoanTypeBusiness LoanType = "business"
)

// AllLoanTypes returns all defined loan types.
func AllLoanTypes() []LoanType {
	return []LoanType{LoanTypeHome, LoanTypeCar, LoanTypePersonal, LoanTypeBusiness}
}

// CustomerType represents the applicant's income category.
type CustomerType string

const (
	CustomerSalaried      CustomerType = "salaried"
	CustomerRental        CustomerType = "rental"
	CustomerSmallBusiness CustomerType = "small-business"
	CustomerLargeBusiness CustomerType = "large-business"
)

// AllCustomerTypes returns all defined customer types.
func AllCustomerTypes() []CustomerType {
	return []CustomerType{CustomerSalaried, CustomerRental, CustomerSmallBusiness, CustomerLargeBusiness}
}

// AnalysisContext carries the three categorical selectors every analysis
// request must provide. Invalid selectors fail the request before any
// component runs.
type AnalysisContext struct {
	BankingSystem BankingSystem `json:"banking_system"`
	LoanType      LoanType      `json:"loan_type"`
	CustomerType  CustomerType  `json:"customer_type"`
}

// Validate checks all three selectors against their enumerated sets.
func (c AnalysisContext) Validate() error {
	valid := false
	for _, b := range AllBankingSystems() {
		if c.BankingSystem == b {
			valid = true
			break
		}
	}
	if !valid {
		return eris.Errorf("model: invalid banking_system %q", c.BankingSystem)
	}

	valid = false
	for _, l := range AllLoanTypes() {
		if c.LoanType == l {
			valid = true
			break
		}
	}
	if !valid {
		return eris.Errorf("model: invalid loan_type %q", c.LoanType)
	}

	valid = false
	for _, t := range AllCustomerTypes() {
		if c.CustomerType == t {
			valid = true
			break
		}
	}
	if !valid {
		return eris.Errorf("model: invalid customer_type %q", c.CustomerType)
	}

	return nil
}

// bankingLabels maps banking systems to the human-readable labels used in
// prompts and recommendations.
var bankingLabels = map[BankingSystem]string{
	BankingConventional: "Conventional Banking (interest-based)",
	BankingIslamic:      "Islamic Banking (Shariah-compliant)",
}

var loanLabels = map[LoanType]string{
	LoanTypeHome:     "Home Loan/Financing",
	LoanTypeCar:      "Car Loan/Financing",
	LoanTypePersonal: "Personal Loan/Financing",
	LoanTypeBusiness: "Business Loan/Financing",
}

var customerLabels = map[CustomerType]string{
	CustomerSalaried:      "Salaried Employee",
	CustomerRental:        "Rental Income",
	CustomerSmallBusiness: "Small Business Owner",
	CustomerLargeBusiness: "Large Enterprise",
}

// Label returns the human-readable form of the banking system.
func (b BankingSystem) Label() string {
	if l, ok := bankingLabels[b]; ok {
		return l
	}
	return string(b)
}

// Label returns the human-readable form of the loan type.
func (l LoanType) Label() string {
	if s, ok := loanLabels[l]; ok {
		return s
	}
	return string(l)
}

// Label returns the human-readable form of the customer type.
func (c CustomerType) Label() string {
	if s, ok := customerLabels[c]; ok {
		return s
	}
	return string(c)
}

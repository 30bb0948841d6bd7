// Package eligibility computes the advisory preview stored with every loan
// application at submission time.
package eligibility

import (
	"fmt"

	"loan-portal/internal/domain/finance"
)

const (
	EmploymentUnemployed = "unemployed"

	maxIncomeShare       = 0.4
	personalIncomeFactor = 12
	businessIncomeFactor = 24
)

type Code string

const (
	CodeEmploymentNotEligible   Code = "employment_not_eligible"
	CodeIncomeNotPositive       Code = "income_not_positive"
	CodeRepaymentExceedsIncome  Code = "repayment_exceeds_income_share"
	CodeAmountExceedsIncomeMult Code = "amount_exceeds_income_multiple"
)

// Reason is a failed check. Limit carries the income multiple for
// CodeAmountExceedsIncomeMult and is zero otherwise.
type Reason struct {
	Code  Code `json:"code"`
	Limit int  `json:"limit,omitempty"`
}

func (r Reason) Message() string {
	switch r.Code {
	case CodeEmploymentNotEligible:
		return "Employment status not eligible"
	case CodeIncomeNotPositive:
		return "Income must be greater than zero"
	case CodeRepaymentExceedsIncome:
		return "Monthly repayment exceeds 40% of income"
	case CodeAmountExceedsIncomeMult:
		return fmt.Sprintf("Requested amount exceeds %dx monthly income", r.Limit)
	default:
		return string(r.Code)
	}
}

// Messages renders reasons in order.
func Messages(reasons []Reason) []string {
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, r.Message())
	}
	return out
}

type Input struct {
	Amount     int64
	Tenure     int
	Income     int64
	Employment string
	Purpose    string
}

type Result struct {
	Eligible    bool
	Reasons     []Reason
	Installment int64
	AnnualRate  float64
}

// Evaluate runs every check; failures accumulate in a fixed order.
func Evaluate(in Input) Result {
	reasons := make([]Reason, 0, 4)

	if in.Employment == EmploymentUnemployed {
		reasons = append(reasons, Reason{Code: CodeEmploymentNotEligible})
	}
	if in.Income <= 0 {
		reasons = append(reasons, Reason{Code: CodeIncomeNotPositive})
	}

	rate := finance.AnnualInterestRate(in.Tenure, in.Purpose)
	emi := finance.RoundedInstallment(float64(in.Amount), rate, in.Tenure)
	if float64(emi) > float64(in.Income)*maxIncomeShare {
		reasons = append(reasons, Reason{Code: CodeRepaymentExceedsIncome})
	}

	multiple := personalIncomeFactor
	if in.Purpose == finance.PurposeBusiness {
		multiple = businessIncomeFactor
	}
	// float64 so large incomes cannot wrap the product
	if float64(in.Amount) > float64(in.Income)*float64(multiple) {
		reasons = append(reasons, Reason{Code: CodeAmountExceedsIncomeMult, Limit: multiple})
	}

	return Result{
		Eligible:    len(reasons) == 0,
		Reasons:     reasons,
		Installment: emi,
		AnnualRate:  rate,
	}
}

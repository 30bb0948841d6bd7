package finance

import "math"

// Purpose that is priced on its own rate regardless of tenure.
const PurposeBusiness = "business"

const (
	rateBusiness  = 0.155
	rateShort     = 0.125 // tenure <= 12
	rateMedium    = 0.145 // tenure <= 24
	rateLong      = 0.165
	shortTenure   = 12
	mediumTenure  = 24
	monthsPerYear = 12
)

// AnnualInterestRate returns the yearly rate as a fraction. Business purpose
// wins over tenure banding.
func AnnualInterestRate(tenureMonths int, purpose string) float64 {
	if purpose == PurposeBusiness {
		return rateBusiness
	}
	switch {
	case tenureMonths <= shortTenure:
		return rateShort
	case tenureMonths <= mediumTenure:
		return rateMedium
	default:
		return rateLong
	}
}

// MonthlyInstallment is the amortized EMI for principal over months. No rounding.
func MonthlyInstallment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := annualRate / monthsPerYear
	if r == 0 {
		return principal / float64(months)
	}
	growth := math.Pow(1+r, float64(months))
	return principal * r * growth / (growth - 1)
}

// RoundedInstallment is MonthlyInstallment rounded up to a whole currency unit.
func RoundedInstallment(principal, annualRate float64, months int) int64 {
	return int64(math.Ceil(MonthlyInstallment(principal, annualRate, months)))
}

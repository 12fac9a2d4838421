package domain

import "math"

// LoanEstimate is the closed-form amortization of a car loan.
type LoanEstimate struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// EstimateLoan computes the fixed monthly payment for a loan of
// (price - downPayment) at annualRate percent over termMonths.
// A zero rate degenerates to straight division.
func EstimateLoan(price, downPayment, annualRate float64, termMonths int) LoanEstimate {
	principal := price - downPayment
	if principal <= 0 || termMonths <= 0 {
		return LoanEstimate{}
	}

	var monthly float64
	if annualRate <= 0 {
		monthly = principal / float64(termMonths)
	} else {
		r := annualRate / 100 / 12
		factor := math.Pow(1+r, float64(termMonths))
		monthly = principal * r * factor / (factor - 1)
	}

	total := monthly * float64(termMonths)
	return LoanEstimate{
		MonthlyPayment: math.Round(monthly*100) / 100,
		TotalPayment:   math.Round(total*100) / 100,
		TotalInterest:  math.Round((total-principal)*100) / 100,
	}
}

package pricing

import "math"

// TeaserTerm is the loan length behind the "or $N/mo" catalog teaser.
const TeaserTerm = 60

// DefaultAPR applies when a listing advertises no financing terms.
const DefaultAPR = 4.9

// LeaseResidual is the share of the price a lease leaves unpaid at term end.
const LeaseResidual = 0.55

// SimpleMonthly is the interest-free teaser payment shown on catalog cards.
func SimpleMonthly(price int) int {
	if price <= 0 {
		return 0
	}
	return price / TeaserTerm
}

// MonthlyPayment is the fixed installment that amortizes principal over
// months at aprPercent. A zero rate divides evenly.
func MonthlyPayment(principal, aprPercent float64, months int) float64 {
	if principal <= 0 || months <= 0 {
		return 0
	}
	r := aprPercent / 100 / 12
	if r <= 0 {
		return roundCents(principal / float64(months))
	}
	return roundCents(principal * r / (1 - math.Pow(1+r, -float64(months))))
}

// LeasePayment is the monthly lease charge: depreciation over the term plus
// the finance charge on capitalized cost and residual.
func LeasePayment(capCost, residual, aprPercent float64, months int) float64 {
	if capCost <= 0 || months <= 0 {
		return 0
	}
	depreciation := (capCost - residual) / float64(months)
	charge := (capCost + residual) * aprPercent / 2400
	return roundCents(max(depreciation, 0) + charge)
}

func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

package domain

// Full-flow pricing constants (EUR per month unless noted).
const (
	BaseMonthlyCost        = 100
	ChildMonthlyCost       = 40
	PrivateIncomeThreshold = 2500 // monthly income; strictly above means Private
	MonthsPerYear          = 12
)

// Quick-flow pricing constants (EUR).
const (
	QuickBaseCost         = 1000
	QuickCostPerYearOfAge = 10
	QuickCostPerIssue     = 200
	QuickCostPerDependent = 150
)

// InsuranceType is the tier derived from the contributor's income.
type InsuranceType string

const (
	InsurancePrivate      InsuranceType = "Private"
	InsuranceGovernmental InsuranceType = "Governmental"
)

// FullQuote is the premium breakdown for a full application.
type FullQuote struct {
	InsuranceType     InsuranceType `json:"insurance_type"`
	CoverCost         int           `json:"cover_cost"`
	ChildrenCoverCost int           `json:"children_cover_cost"`
	MonthlyCost       int           `json:"monthly_cost_eur"`
	YearlyCost        int           `json:"yearly_cost_eur"`
}

// QuickQuote is the estimate for a quick health application.
type QuickQuote struct {
	AgeCost       int `json:"age_cost"`
	HealthCost    int `json:"health_cost"`
	DependentCost int `json:"dependent_cost"`
	Cost          int `json:"cost_eur"`
}

// QuoteFull prices a full application. Inputs are assumed to be validated
// already; the function has no error conditions.
func QuoteFull(income, numDependents int, covers []Cover) FullQuote {
	coverCost := 0
	for _, c := range normalizeCovers(covers) {
		coverCost += c.MonthlySurcharge()
	}

	childrenCost := 0
	if numDependents > 0 {
		childrenCost = ChildMonthlyCost * numDependents
	}

	monthly := BaseMonthlyCost + coverCost + childrenCost
	return FullQuote{
		InsuranceType:     ClassifyIncome(income),
		CoverCost:         coverCost,
		ChildrenCoverCost: childrenCost,
		MonthlyCost:       monthly,
		YearlyCost:        monthly * MonthsPerYear,
	}
}

// ClassifyIncome returns Private for incomes strictly above the threshold.
func ClassifyIncome(income int) InsuranceType {
	if income > PrivateIncomeThreshold {
		return InsurancePrivate
	}
	return InsuranceGovernmental
}

// QuoteQuick prices a quick health application.
func QuoteQuick(age, healthIssueCount, dependents int) QuickQuote {
	q := QuickQuote{
		AgeCost:       age * QuickCostPerYearOfAge,
		HealthCost:    healthIssueCount * QuickCostPerIssue,
		DependentCost: dependents * QuickCostPerDependent,
	}
	q.Cost = QuickBaseCost + q.AgeCost + q.HealthCost + q.DependentCost
	return q
}

package domain

import (
	"fmt"
	"strings"
)

// Form bounds, as enforced by the collecting forms.
const (
	FullMinAge      = 18
	QuickMinAge     = 0
	MaxAge          = 120
	MaxDependentAge = 18
	MaxDependents   = 10
)

// FullApplication is the payload of the full insurance application form.
type FullApplication struct {
	Name       string      `json:"name"`
	Mobile     string      `json:"mobile"`
	Email      string      `json:"email"`
	Age        int         `json:"age"`
	Income     int         `json:"income"`
	Employment string      `json:"employment"`
	Dependents []Dependent `json:"dependents"`
	Covers     []Cover     `json:"covers"`
}

// Validate checks required fields and the form's numeric bounds.
func (a FullApplication) Validate() error {
	ve := &ValidationError{Flow: FlowFull}
	ve.Missing = missingFields(
		field{"Name", a.Name},
		field{"Mobile", a.Mobile},
		field{"Email", a.Email},
		field{"Employment", a.Employment},
	)
	if a.Age < FullMinAge || a.Age > MaxAge {
		ve.Violations = append(ve.Violations, fmt.Sprintf("age must be between %d and %d", FullMinAge, MaxAge))
	}
	if a.Income < 0 {
		ve.Violations = append(ve.Violations, "income must not be negative")
	}
	if len(a.Dependents) > MaxDependents {
		ve.Violations = append(ve.Violations, fmt.Sprintf("at most %d dependents are allowed", MaxDependents))
	}
	for i, d := range a.Dependents {
		if d.Age < 0 || d.Age > MaxDependentAge {
			ve.Violations = append(ve.Violations, fmt.Sprintf("dependent %d age must be between 0 and %d", i+1, MaxDependentAge))
		}
	}
	for _, c := range a.Covers {
		if c.MonthlySurcharge() == 0 {
			ve.Violations = append(ve.Violations, fmt.Sprintf("unknown cover %q", c))
		}
	}
	if len(ve.Missing) > 0 || len(ve.Violations) > 0 {
		return ve
	}
	return nil
}

// Quote prices the application.
func (a FullApplication) Quote() FullQuote {
	return QuoteFull(a.Income, len(a.Dependents), a.Covers)
}

// Normalize converts the application into a store record with its quote.
func (a FullApplication) Normalize() (Record, FullQuote) {
	q := a.Quote()

	deps := make([]Dependent, 0, len(a.Dependents))
	deps = append(deps, a.Dependents...)

	return Record{
		Name:           a.Name,
		Mobile:         a.Mobile,
		Email:          a.Email,
		Age:            a.Age,
		Income:         intPtr(a.Income),
		Employment:     a.Employment,
		Dependents:     len(deps),
		DependentsInfo: deps,
		Covers:         normalizeCovers(a.Covers),
		InsuranceType:  q.InsuranceType,
		MonthlyCostEUR: intPtr(q.MonthlyCost),
		YearlyCostEUR:  intPtr(q.YearlyCost),
	}, q
}

// QuickHealthApplication is the payload of the quick health form.
type QuickHealthApplication struct {
	Name         string        `json:"name"`
	Age          int           `json:"age"`
	Employment   string        `json:"employment"`
	HealthIssues []HealthIssue `json:"health_issues"`
	Dependents   int           `json:"dependents"`
}

// Validate checks required fields and the form's numeric bounds.
func (a QuickHealthApplication) Validate() error {
	ve := &ValidationError{Flow: FlowQuick}
	ve.Missing = missingFields(
		field{"Name", a.Name},
		field{"Employment", a.Employment},
	)
	if a.Age < QuickMinAge || a.Age > MaxAge {
		ve.Violations = append(ve.Violations, fmt.Sprintf("age must be between %d and %d", QuickMinAge, MaxAge))
	}
	if a.Dependents < 0 || a.Dependents > MaxDependents {
		ve.Violations = append(ve.Violations, fmt.Sprintf("dependents must be between 0 and %d", MaxDependents))
	}
	for _, h := range a.HealthIssues {
		if _, err := ParseHealthIssue(string(h)); err != nil {
			ve.Violations = append(ve.Violations, err.Error())
		}
	}
	if len(ve.Missing) > 0 || len(ve.Violations) > 0 {
		return ve
	}
	return nil
}

// Quote prices the application. Each distinct tag counts, "None" included.
func (a QuickHealthApplication) Quote() QuickQuote {
	return QuoteQuick(a.Age, len(normalizeHealthIssues(a.HealthIssues)), a.Dependents)
}

// Normalize converts the application into a store record with its quote.
func (a QuickHealthApplication) Normalize() (Record, QuickQuote) {
	q := a.Quote()
	return Record{
		Name:         a.Name,
		Age:          a.Age,
		Employment:   a.Employment,
		Dependents:   a.Dependents,
		HealthIssues: normalizeHealthIssues(a.HealthIssues),
		Cost:         intPtr(q.Cost),
	}, q
}

type field struct {
	name  string
	value string
}

func missingFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

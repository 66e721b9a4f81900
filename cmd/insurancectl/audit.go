package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

// phase tracks pass/fail for one audit check.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newAuditCmd(store *storeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check every stored record against the pricing rules.",
		Long: `audit reloads the record store and recomputes each record's costs from its
own inputs. It exits non-zero when a required field is empty or a stored cost
disagrees with the current pricing rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := store.open()
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}

			phases := []*phase{
				auditRequiredFields(records),
				auditFullPricing(records),
				auditQuickPricing(records),
			}
			full, quick := flowCounts(records)
			if failed := report(cmd.OutOrStdout(), phases, full, quick); failed > 0 {
				return fmt.Errorf("audit failed: %d problems", failed)
			}
			return nil
		},
	}
}

func auditRequiredFields(records []domain.Record) *phase {
	p := &phase{name: "Required fields"}
	for i, rec := range records {
		required := map[string]string{domain.ColName: rec.Name, domain.ColEmployment: rec.Employment}
		if rec.Flow() == domain.FlowFull {
			required[domain.ColMobile] = rec.Mobile
			required[domain.ColEmail] = rec.Email
		}
		var missing []string
		for col, v := range required {
			if v == "" {
				missing = append(missing, col)
			}
		}
		slices.Sort(missing)
		for _, col := range missing {
			p.errorf("record %d: %s is empty", i+1, col)
		}
	}
	return p
}

func auditFullPricing(records []domain.Record) *phase {
	p := &phase{name: "Full application pricing"}
	for i, rec := range records {
		if rec.Flow() != domain.FlowFull {
			continue
		}
		if rec.Dependents != len(rec.DependentsInfo) {
			p.errorf("record %d: %s is %d but %s lists %d", i+1,
				domain.ColDependents, rec.Dependents, domain.ColDependentsInfo, len(rec.DependentsInfo))
		}
		if rec.Income == nil {
			p.errorf("record %d: %s is empty", i+1, domain.ColIncome)
			continue
		}

		want := domain.QuoteFull(*rec.Income, rec.Dependents, rec.Covers)
		if rec.InsuranceType != want.InsuranceType {
			p.errorf("record %d: %s is %q, want %q", i+1, domain.ColInsuranceType, rec.InsuranceType, want.InsuranceType)
		}
		checkCost(p, i, domain.ColMonthlyCost, rec.MonthlyCostEUR, want.MonthlyCost)
		checkCost(p, i, domain.ColYearlyCost, rec.YearlyCostEUR, want.YearlyCost)
	}
	return p
}

func auditQuickPricing(records []domain.Record) *phase {
	p := &phase{name: "Quick health pricing"}
	for i, rec := range records {
		if rec.Flow() != domain.FlowQuick {
			continue
		}
		want := domain.QuoteQuick(rec.Age, len(rec.HealthIssues), rec.Dependents)
		checkCost(p, i, domain.ColCost, rec.Cost, want.Cost)
	}
	return p
}

func checkCost(p *phase, i int, col string, got *int, want int) {
	switch {
	case got == nil:
		p.errorf("record %d: %s is empty, want %d", i+1, col, want)
	case *got != want:
		p.errorf("record %d: %s is %d, want %d", i+1, col, *got, want)
	}
}

// report prints the phase summary and details, returning the problem count.
func report(w io.Writer, phases []*phase, full, quick int) int {
	failed := 0
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			failed += len(p.errors)
		}
		fmt.Fprintf(w, "  %-30s %s\n", p.name, status)
	}
	fmt.Fprintf(w, "\nRecords: %d full, %d quick\n", full, quick)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}
	return failed
}

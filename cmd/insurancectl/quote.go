package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price an application without saving it.",
	}
	cmd.AddCommand(newQuoteFullCmd(), newQuoteQuickCmd())
	return cmd
}

func newQuoteFullCmd() *cobra.Command {
	var (
		income     int
		dependents int
		covers     []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:     "full",
		Short:   "Price a full insurance application.",
		Example: `  insurancectl quote full --income 3000 --dependents 2 --cover Tooth --cover Accidental`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if income < 0 {
				return fmt.Errorf("--income must not be negative")
			}
			if dependents < 0 || dependents > domain.MaxDependents {
				return fmt.Errorf("--dependents must be between 0 and %d", domain.MaxDependents)
			}
			parsed := make([]domain.Cover, 0, len(covers))
			for _, c := range covers {
				cover, err := domain.ParseCover(c)
				if err != nil {
					return err
				}
				parsed = append(parsed, cover)
			}

			q := domain.QuoteFull(income, dependents, parsed)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), q)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Insurance Type:\t%s\n", q.InsuranceType)
			fmt.Fprintf(w, "Cover Cost:\t€%d/month\n", q.CoverCost)
			fmt.Fprintf(w, "Children Cover Cost:\t€%d/month\n", q.ChildrenCoverCost)
			fmt.Fprintf(w, "Monthly Cost:\t€%d\n", q.MonthlyCost)
			fmt.Fprintf(w, "Yearly Cost:\t€%d\n", q.YearlyCost)
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&income, "income", 0, "monthly income in EUR")
	cmd.Flags().IntVar(&dependents, "dependents", 0, "number of dependents aged 0-18")
	cmd.Flags().StringSliceVar(&covers, "cover", nil, "optional cover (Accidental, Tooth, Pregnancy, Terminal Illnesses); repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the quote as JSON")
	return cmd
}

func newQuoteQuickCmd() *cobra.Command {
	var (
		age        int
		dependents int
		issues     []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:     "quick",
		Short:   "Estimate a quick health insurance application.",
		Example: `  insurancectl quote quick --age 40 --issue Diabetes --issue Asthma --dependents 1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := domain.QuickHealthApplication{Name: "-", Employment: "-", Age: age, Dependents: dependents}
			for _, s := range issues {
				h, err := domain.ParseHealthIssue(s)
				if err != nil {
					return err
				}
				app.HealthIssues = append(app.HealthIssues, h)
			}
			if err := app.Validate(); err != nil {
				return err
			}

			q := app.Quote()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), q)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Age Cost:\t€%d\n", q.AgeCost)
			fmt.Fprintf(w, "Health Cost:\t€%d\n", q.HealthCost)
			fmt.Fprintf(w, "Dependent Cost:\t€%d\n", q.DependentCost)
			fmt.Fprintf(w, "Estimated Cost:\t€%d\n", q.Cost)
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&age, "age", 0, "applicant age")
	cmd.Flags().IntVar(&dependents, "dependents", 0, "number of dependents under 18")
	cmd.Flags().StringSliceVar(&issues, "issue", nil, "known health issue (Diabetes, Hypertension, Asthma, Heart Disease, None); repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the quote as JSON")
	return cmd
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

func newRecordsCmd(store *storeOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List the stored applications in submission order.",
		Args:  cobra.NoArgs,
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
			if asJSON {
				return printJSON(cmd.OutOrStdout(), records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No applications have been saved yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tFLOW\tNAME\tAGE\tDEPENDENTS\tTYPE\tMONTHLY\tYEARLY\tCOST")
			for i, rec := range records {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
					i+1, rec.Flow(), rec.Name, rec.Age, rec.Dependents, orDash(string(rec.InsuranceType)),
					euros(rec.MonthlyCostEUR), euros(rec.YearlyCostEUR), euros(rec.Cost))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the records as JSON")
	return cmd
}

func euros(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("€%d", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// flowCounts tallies records per flow.
func flowCounts(records []domain.Record) (full, quick int) {
	for _, rec := range records {
		if rec.Flow() == domain.FlowQuick {
			quick++
		} else {
			full++
		}
	}
	return full, quick
}

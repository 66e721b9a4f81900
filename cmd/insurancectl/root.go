package main

import (
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/insurance-quote-service/internal/adapter/recordstore"
	"github.com/couchcryptid/insurance-quote-service/internal/config"
)

// storeOptions select the record store shared by the store-reading commands.
type storeOptions struct {
	driver string
	path   string
}

func (o *storeOptions) open() (recordstore.Store, error) {
	path := o.path
	if path == "" {
		path = config.DefaultStorePath(o.driver)
	}
	return recordstore.Open(o.driver, path)
}

func newRootCmd() *cobra.Command {
	store := &storeOptions{}

	root := &cobra.Command{
		Use:   "insurancectl",
		Short: "Price insurance applications and inspect stored records.",
		Long: `insurancectl prices full and quick health applications with the same rules
as the web forms, lists and audits the record store, resolves Paris landmarks,
and tails the submission event stream.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(&store.driver, "store-driver", envOr("STORE_DRIVER", config.StoreCSV), "record store driver: csv or sqlite")
	root.PersistentFlags().StringVar(&store.path, "store-path", os.Getenv("STORE_PATH"), "record store location (default depends on the driver)")

	root.AddCommand(
		newQuoteCmd(),
		newRecordsCmd(store),
		newAuditCmd(store),
		newLandmarkCmd(),
		newEventsCmd(),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

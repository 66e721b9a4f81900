package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/insurance-quote-service/internal/adapter/mapbox"
	"github.com/couchcryptid/insurance-quote-service/internal/domain"
	"github.com/couchcryptid/insurance-quote-service/internal/observability"
)

func newLandmarkCmd() *cobra.Command {
	var (
		token  string
		region string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "landmark [name]",
		Short: "Resolve a Paris landmark to coordinates, or list the known landmarks.",
		Long: `With no argument, landmark lists the built-in Paris landmarks. With a name, it
prints that landmark's coordinates. Names match exactly. When a Mapbox token is
set, names outside the built-in table are forward-geocoded within --region.`,
		Example: `  insurancectl landmark "Eiffel Tower"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if asJSON {
					return printJSON(out, domain.Landmarks())
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tLAT\tLON")
				for _, l := range domain.Landmarks() {
					fmt.Fprintf(w, "%s\t%.7f\t%.7f\n", l.Name, l.Geo.Lat, l.Geo.Lon)
				}
				return w.Flush()
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			var geocoder domain.Geocoder
			if token != "" {
				geocoder = mapbox.NewClient(token, 5*time.Second, observability.NewUnregisteredMetrics(), logger)
			}

			result, err := domain.NewLocator(geocoder, region, logger).Locate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(out, result)
			}
			fmt.Fprintf(out, "%s: %.7f, %.7f (%s)\n", result.Name, result.Geo.Lat, result.Geo.Lon, result.Source)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "mapbox-token", envOr("MAPBOX_TOKEN", ""), "Mapbox access token for names outside the landmark table")
	cmd.Flags().StringVar(&region, "region", envOr("MAPBOX_REGION", "Paris, France"), "region appended to geocoding queries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

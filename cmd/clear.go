package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newClearCmd creates the 'clear' subcommand, which deletes every stored job
// for a country.
func newClearCmd() *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored jobs for a country",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if country == "" {
				country = appInstance.Config().Scraper.Country
			}
			if country == "" {
				return fmt.Errorf("a target country is required (--country or JOBRAKE_SCRAPER_COUNTRY)")
			}

			deleted, err := appInstance.Store().ClearAllForCountry(cmd.Context(), country)
			if err != nil {
				return fmt.Errorf("clear jobs: %w", err)
			}
			appInstance.Logger().Info("jobs cleared",
				zap.String("country", country), zap.Int64("deleted", deleted))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d jobs for %s\n", deleted, country)
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "country whose jobs should be deleted")

	return cmd
}

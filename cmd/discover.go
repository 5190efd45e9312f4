package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newDiscoverCmd creates the 'discover' subcommand, which runs company
// discovery alone and prints the result, useful for checking what a scrape
// would target.
func newDiscoverCmd() *cobra.Command {
	var (
		country string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find companies hiring in a country without scraping them",

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
			serper := appInstance.Discovery()
			if serper == nil {
				return fmt.Errorf("no search API key configured")
			}

			companies, err := serper.Find(cmd.Context(), country, limit)
			if err != nil {
				return fmt.Errorf("discover companies: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(companies)
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "target country")
	cmd.Flags().IntVar(&limit, "limit", 0, "max companies to return (0 uses the configured default)")

	return cmd
}

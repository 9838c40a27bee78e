package cmd

import (
	"fmt"
	"sort"

	"github.com/rsambing/smart-tour/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which datasets are staged",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("Staged Datasets\n")
		fmt.Printf("===============\n")
		for _, st := range s.Status() {
			if st.LoadedAt == "" {
				fmt.Printf("%-9s not ingested\n", st.Dataset+":")
				continue
			}
			fmt.Printf("%-9s %d records from %s (loaded %s)\n", st.Dataset+":", st.Records, st.Source, st.LoadedAt)
		}

		visitorsByProv := s.VisitorCountByProvince()
		sitesByProv := s.SiteCountByProvince()

		if len(visitorsByProv) > 0 || len(sitesByProv) > 0 {
			fmt.Printf("\nPer-Province Breakdown\n")
			fmt.Printf("----------------------\n")

			seen := make(map[string]bool)
			var provinces []string
			for p := range visitorsByProv {
				seen[p] = true
				provinces = append(provinces, p)
			}
			for p := range sitesByProv {
				if !seen[p] {
					provinces = append(provinces, p)
				}
			}
			sort.Strings(provinces)

			for _, p := range provinces {
				fmt.Printf("  %-16s  visitor rows: %4d  eco-sites: %3d\n", p, visitorsByProv[p], sitesByProv[p])
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

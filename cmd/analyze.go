package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rsambing/smart-tour/internal/aggregator"
	"github.com/rsambing/smart-tour/internal/store"
	"github.com/rsambing/smart-tour/internal/summary"
	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute KPIs and the executive summary from the staged datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := runStaged(s)
		if errors.Is(err, aggregator.ErrInsufficientData) {
			return fmt.Errorf("%w (run 'smart-tour ingest' first)", err)
		}
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				KPIs    any `json:"kpis"`
				Summary any `json:"summary"`
			}{res.KPIs, res.Summary})
		}

		if !res.VisitorsAvailable {
			fmt.Println("Note: no visitor data staged; tourism KPIs are zero.")
		}
		if !res.SitesAvailable {
			fmt.Println("Note: no eco-site data staged; sustainability and economic KPIs are zero.")
		}

		fmt.Println(summary.TerminalSummary(res.KPIs))

		fmt.Printf("\nKey Findings\n")
		fmt.Printf("------------\n")
		for _, f := range res.Summary.KeyFindings {
			fmt.Printf("  - %s\n", f)
		}

		fmt.Printf("\nRecommendations\n")
		fmt.Printf("---------------\n")
		if len(res.Summary.Recommendations) == 0 {
			fmt.Println("  (none)")
		}
		for _, r := range res.Summary.Recommendations {
			fmt.Printf("  - %s\n", r)
		}

		if len(res.Summary.TopProvinces) > 0 {
			fmt.Printf("\nTop Provinces\n")
			fmt.Printf("-------------\n")
			for i, tp := range res.Summary.TopProvinces {
				fmt.Printf("  %d. %-16s %10d visitors  %5.1f%% foreign  %.2f nights\n",
					i+1, tp.Province, tp.Visitors, tp.ForeignSharePct, tp.AvgStay)
			}
		}

		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print KPIs and summary as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/rsambing/smart-tour/internal/analysis"
	"github.com/rsambing/smart-tour/internal/config"
	"github.com/rsambing/smart-tour/internal/store"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "smart-tour",
	Short: "Aggregate tourism and eco-site data into KPIs, summaries and reports",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("data-dir") {
			dataDir = cfg.Data.Dir
		}

		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "Directory holding the staged datasets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func Execute() error {
	return rootCmd.Execute()
}

func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// runStaged analyses whatever datasets are currently staged.
func runStaged(s *store.Store) (*analysis.Result, error) {
	visitors, err := s.ReadVisitors()
	if err != nil {
		return nil, fmt.Errorf("reading staged visitors: %w", err)
	}
	sites, err := s.ReadSites()
	if err != nil {
		return nil, fmt.Errorf("reading staged sites: %w", err)
	}
	logVerbose("Analyzing %d visitor records and %d sites", len(visitors), len(sites))

	policy := cfg.AnalysisPolicy()
	logVerbose("Policy: annualization x%d, occupancy %.2f", policy.AnnualizationFactor, policy.OccupancyFactor)
	return analysis.Run(visitors, sites, policy)
}

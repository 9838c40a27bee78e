package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rsambing/smart-tour/internal/report"
	"github.com/rsambing/smart-tour/internal/store"
	"github.com/spf13/cobra"
)

var (
	exportOut    string
	exportXLSX   bool
	exportHTML   bool
	exportCharts bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the analysis as an Excel workbook, HTML report and PNG charts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("out") {
			exportOut = cfg.Report.OutputDir
		}
		if err := os.MkdirAll(exportOut, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := runStaged(s)
		if err != nil {
			return err
		}

		var charts []string
		if exportCharts {
			paths, err := report.WriteCharts(res, exportOut)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Printf("Wrote %s\n", p)
				charts = append(charts, filepath.Base(p))
			}
		}

		if exportXLSX {
			path := filepath.Join(exportOut, "smart-tour-report.xlsx")
			if err := report.WriteWorkbook(res, path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
		}

		if exportHTML {
			path := filepath.Join(exportOut, "smart-tour-report.html")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := report.WriteHTML(f, res, charts); err != nil {
				f.Close()
				return fmt.Errorf("rendering HTML: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "reports", "Output directory")
	exportCmd.Flags().BoolVar(&exportXLSX, "xlsx", true, "Write the Excel workbook")
	exportCmd.Flags().BoolVar(&exportHTML, "html", true, "Write the HTML report")
	exportCmd.Flags().BoolVar(&exportCharts, "charts", true, "Write PNG charts")
	rootCmd.AddCommand(exportCmd)
}

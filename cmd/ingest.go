package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rsambing/smart-tour/internal/ingest"
	"github.com/rsambing/smart-tour/internal/store"
	"github.com/spf13/cobra"
)

var (
	ingestVisitors string
	ingestSites    string
	ingestPostgres string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Validate visitor and eco-site datasets and stage them for analysis",
	Long: `Reads visitor and/or eco-site records from .csv or .xlsx files, or from
PostgreSQL tables, validates them and replaces the staged copy of each
dataset that was given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("visitors") {
			ingestVisitors = cfg.Ingest.VisitorsFile
		}
		if !cmd.Flags().Changed("sites") {
			ingestSites = cfg.Ingest.SitesFile
		}
		if !cmd.Flags().Changed("postgres") {
			ingestPostgres = cfg.Ingest.PostgresDSN
		}
		if ingestVisitors == "" && ingestSites == "" && ingestPostgres == "" {
			return errors.New("nothing to ingest: pass --visitors, --sites or --postgres")
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		if ingestPostgres != "" {
			if err := ingestFromPostgres(cmd.Context(), s); err != nil {
				return err
			}
		}

		if ingestVisitors != "" {
			logVerbose("Reading visitors from %s", ingestVisitors)
			records, err := ingest.LoadVisitorsFile(ingestVisitors)
			if err != nil {
				return err
			}
			if err := s.WriteVisitors(records, ingestVisitors); err != nil {
				return fmt.Errorf("staging visitors: %w", err)
			}
			fmt.Printf("Staged %d visitor records from %s\n", len(records), ingestVisitors)
		}

		if ingestSites != "" {
			logVerbose("Reading eco-sites from %s", ingestSites)
			records, err := ingest.LoadSitesFile(ingestSites)
			if err != nil {
				return err
			}
			if err := s.WriteSites(records, ingestSites); err != nil {
				return fmt.Errorf("staging sites: %w", err)
			}
			fmt.Printf("Staged %d eco-sites from %s\n", len(records), ingestSites)
		}

		return nil
	},
}

func ingestFromPostgres(ctx context.Context, s *store.Store) error {
	logVerbose("Connecting to PostgreSQL")
	src, err := ingest.NewPostgresSource(ctx, ingestPostgres)
	if err != nil {
		return err
	}
	defer src.Close()

	visitors, err := src.Visitors(ctx, cfg.Ingest.VisitorsTable)
	if err != nil {
		return err
	}
	if err := s.WriteVisitors(visitors, "postgres:"+cfg.Ingest.VisitorsTable); err != nil {
		return fmt.Errorf("staging visitors: %w", err)
	}
	fmt.Printf("Staged %d visitor records from table %s\n", len(visitors), cfg.Ingest.VisitorsTable)

	sites, err := src.Sites(ctx, cfg.Ingest.SitesTable)
	if err != nil {
		return err
	}
	if err := s.WriteSites(sites, "postgres:"+cfg.Ingest.SitesTable); err != nil {
		return fmt.Errorf("staging sites: %w", err)
	}
	fmt.Printf("Staged %d eco-sites from table %s\n", len(sites), cfg.Ingest.SitesTable)
	return nil
}

func init() {
	ingestCmd.Flags().StringVar(&ingestVisitors, "visitors", "", "Visitor dataset (.csv or .xlsx)")
	ingestCmd.Flags().StringVar(&ingestSites, "sites", "", "Eco-site dataset (.csv or .xlsx)")
	ingestCmd.Flags().StringVar(&ingestPostgres, "postgres", "", "PostgreSQL DSN to read both datasets from")
	rootCmd.AddCommand(ingestCmd)
}

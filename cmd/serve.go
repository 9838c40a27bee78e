package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rsambing/smart-tour/internal/logging"
	"github.com/rsambing/smart-tour/internal/store"
	"github.com/rsambing/smart-tour/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveHost    string
	servePort    int
	serveAnalyze bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("host") {
			serveHost = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") {
			servePort = cfg.Server.Port
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		srv := &web.Server{
			Store:     s,
			Policy:    cfg.AnalysisPolicy(),
			Logger:    logging.New(verbose),
			Addr:      fmt.Sprintf("%s:%d", serveHost, servePort),
			RateLimit: cfg.Server.RateLimit,
			CacheTTL:  cfg.Server.CacheTTL.Duration,
		}

		if serveAnalyze {
			if err := srv.AnalyzeNow(); err != nil {
				srv.Logger.Warn("initial analysis skipped: %v", err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveAnalyze, "analyze", true, "Analyze the staged datasets before serving")
	rootCmd.AddCommand(serveCmd)
}

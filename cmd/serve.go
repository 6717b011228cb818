package cmd

import (
	"log/slog"

	"github.com/jsphweid/gyrotone/api"
	"github.com/spf13/cobra"
)

var serveListen string

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to listen on (default: config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves performance sessions over HTTP",
	Long: `Serves performance sessions over HTTP. Clients post motion samples, one
at a time or over a WebSocket, and get the next pair of notes back.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveListen != "" {
			cfg.Listen = serveListen
		}
		srv, err := api.New(cfg, slog.Default())
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

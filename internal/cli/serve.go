package cli

import (
	"github.com/spf13/cobra"

	"github.com/tileprobe/tileprobe/internal/server"
	"github.com/tileprobe/tileprobe/pkg/config"
	"github.com/tileprobe/tileprobe/pkg/fetch"
	"github.com/tileprobe/tileprobe/pkg/pipeline"
)

// newServeCmd creates the serve command for running the HTTP analysis
// service. Flags override values from the optional TOML config file.
func newServeCmd() *cobra.Command {
	var addr, configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP tile analysis service",
		Long: `Run an HTTP service exposing the analysis pipeline:

  GET /healthz
  GET /v1/analyze?url=<tile-url>
  GET /v1/export?url=<tile-url>&layer=<name>&format=csv|markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			fetcher := fetch.NewClient(cfg.FetchTimeout(), cfg.Fetch.Headers)
			runner := pipeline.NewRunner(fetcher, logger)
			srv := server.New(cfg, runner, logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to tileprobe.toml")

	return cmd
}

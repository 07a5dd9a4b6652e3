package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tapegraph/pkg/observability"
	"github.com/matzehuels/tapegraph/pkg/observability/prom"
	"github.com/matzehuels/tapegraph/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulate and pebble API over HTTP",
		Long: `Serve the HTTP API.

  POST /v1/simulate   run a machine, return outcome, tapes and trace graph
  POST /v1/pebble     pebble a JSON graph (?strategy=time|space)
  POST /v1/validate   report graph validity
  GET  /metrics       Prometheus metrics
  GET  /healthz       liveness

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("metrics") {
				metrics = c.Config.Server.Metrics
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := []server.Option{server.WithLogger(c.Logger)}
			if metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				prom.New(reg).Register()
				defer observability.Reset()
				opts = append(opts, server.WithMetrics(prom.Handler(reg)))
			}

			return server.New(runner, opts...).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

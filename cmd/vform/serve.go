package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	verrors "github.com/vango-dev/vform/internal/errors"
	"github.com/vango-dev/vform/internal/playground"
	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/observe"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr      string
		pretty    bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve <scenario.yaml>",
		Short: "Host a scenario's form in a browser playground",
		Long: `Serve a scenario's form over HTTP. The page works without JavaScript;
the state is also available as JSON and as a websocket stream.

Endpoints:
  GET  /          form page
  GET  /state     current state as JSON
  GET  /ws        state stream
  POST /change    field=<name>&value=<v>
  POST /blur      field=<name>
  POST /submit    whole-form post, or empty to submit current values
  POST /reset
  GET  /metrics   Prometheus metrics (if enabled)

Examples:
  vform serve examples/signup.yaml
  vform serve examples/signup.yaml --addr :8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			if addr == "" {
				addr = g.cfg.PlaygroundAddress()
			}

			srv, err := playground.New(g.playgroundConfig(sc.FormName(), pretty, noMetrics, playground.Config{Scenario: sc}))
			if err != nil {
				return verrors.New("V012").Wrap(err)
			}

			out := cmd.OutOrStdout()
			success(out, "Serving %s", sc.FormName())
			info(out, "http://%s", addr)

			if err := srv.ListenAndServe(cmd.Context(), addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return verrors.New("V031").WithDetail(fmt.Sprintf("listening on %s", addr)).Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from vform.json)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the page markup")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable the metrics endpoint")

	return cmd
}

// playgroundConfig fills base with the logger, metrics and tracing set up
// from the configuration.
func (g *globals) playgroundConfig(formName string, pretty, noMetrics bool, base playground.Config) playground.Config {
	base.Logger = g.logger
	base.Pretty = pretty

	if g.cfg.Metrics.Enabled && !noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		base.Observer = observe.NewMetrics(
			observe.WithNamespace(g.cfg.Metrics.Namespace),
			observe.WithRegistry(reg),
		)
		base.Gatherer = reg
		base.MetricsPath = g.cfg.Metrics.Path
	}

	if g.cfg.Tracing.Enabled {
		tracerName := g.cfg.Tracing.TracerName
		base.WrapSubmit = func(next form.SubmitFunc) form.SubmitFunc {
			return observe.TraceSubmit(formName, next, observe.WithTracerName(tracerName))
		}
	}
	return base
}

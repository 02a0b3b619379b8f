package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/recon/internal/demo"
	"github.com/vango-dev/recon/pkg/inspect"
	"github.com/vango-dev/recon/pkg/reconcile"
	"github.com/vango-dev/recon/pkg/telemetry"
)

func inspectCmd(g *globals) *cobra.Command {
	var (
		addr     string
		autoplay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the demo tree, its journal and metrics over HTTP",
		Long: `Mount the demo application and serve the inspector:

  GET  /tree                   rendered HTML (?pretty=1, ?ids=1)
  GET  /journal                mutation journal (?since=N, ?format=binary)
  POST /events/{node}/{event}  fire a listener
  GET  /ws                     live binary mutation stream
  GET  /metrics                Prometheus metrics

Examples:
  recon inspect
  recon inspect --addr=0.0.0.0:7070 --autoplay=2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := telemetry.NewMetrics(
				telemetry.WithNamespace(cfg.Metrics.Namespace),
				telemetry.WithRegistry(registry),
			)
			tracer := telemetry.NewTracer()

			s, err := mountDemo(cfg, cmd.ErrOrStderr(), metrics.Adapter,
				reconcile.WithObserver(reconcile.Observers(metrics, tracer)))
			if err != nil {
				return err
			}
			defer s.root.Unmount()

			srv := inspect.New(s.doc,
				inspect.WithRunner(s.root),
				inspect.WithGatherer(registry),
				inspect.WithLogger(logger.With("component", "inspect")),
			)
			defer srv.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if autoplay > 0 {
				go autoplayDemo(ctx, s, autoplay, logger)
			}

			success(cmd.OutOrStdout(), "Inspector on http://%s", cfg.Inspect.Addr)
			return srv.ListenAndServe(ctx, cfg.Inspect.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from recon.json)")
	cmd.Flags().DurationVar(&autoplay, "autoplay", 0, "Replay the demo script at this interval")

	return cmd
}

// autoplayDemo plays the script in a loop until ctx is done.
func autoplayDemo(ctx context.Context, s *session, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			step := demo.Script[i%len(demo.Script)]
			if err := demo.Play(s.root, s.doc, step); err != nil {
				logger.Warn("autoplay step failed", "step", step.Name, "error", err)
			}
		}
	}
}

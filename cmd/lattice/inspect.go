package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/lattice/internal/config"
	"github.com/vango-dev/lattice/pkg/inspect"
	"github.com/vango-dev/lattice/pkg/reactive"
	"github.com/vango-dev/lattice/pkg/telemetry"
)

func inspectCmd(g *globalOptions) *cobra.Command {
	var (
		port int
		host string
		demo time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Start the inspector server",
		Long: `Start the inspector HTTP server.

POST a scene to /layout to lay it out, scrape /metrics with Prometheus,
and connect to /events for a live stream of propagation and layout
statistics.

Examples:
  lattice inspect
  lattice inspect --port=8080
  lattice inspect --demo=1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Inspect.Port = port
			}
			if host != "" {
				cfg.Inspect.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runInspect(cmd.OutOrStdout(), cfg, demo)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from lattice.json)")
	cmd.Flags().StringVar(&host, "host", "", "Host to bind to (default from lattice.json)")
	cmd.Flags().DurationVar(&demo, "demo", 0, "Tick a demo counter at this interval to generate propagation events")

	return cmd
}

func runInspect(w io.Writer, cfg *config.Config, demo time.Duration) error {
	logger := newLogger(cfg, os.Stderr).With("component", "inspect")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(
		telemetry.WithRegistry(registry),
		telemetry.WithNamespace(cfg.Inspect.MetricsNamespace),
	)

	hub := inspect.NewHub(logger)
	opts := []inspect.Option{
		inspect.WithEnvironment(cfg.Environment()),
		inspect.WithDefaultProposal(cfg.DefaultProposal()),
		inspect.WithGatherer(registry),
		inspect.WithHub(hub),
		inspect.WithLogger(logger),
		inspect.WithObserver(metrics),
	}
	runtimeOpts := []reactive.Option{
		reactive.WithLogger(logger),
		reactive.WithObserver(metrics),
		reactive.WithObserver(hub),
	}
	if cfg.Inspect.Tracing {
		tracer := telemetry.NewTracer()
		opts = append(opts, inspect.WithObserver(tracer))
		runtimeOpts = append(runtimeOpts, reactive.WithObserver(tracer))
	}
	server := inspect.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if demo > 0 {
		go tickDemo(ctx, reactive.NewRuntime(runtimeOpts...), demo)
	}

	printBanner(w)
	fmt.Fprintln(w, "  inspect")
	fmt.Fprintln(w)
	success(w, "Listening on %s", cfg.InspectURL())
	info(w, "POST %s/layout   GET %s/metrics   WS %s/events", cfg.InspectURL(), cfg.InspectURL(), cfg.InspectURL())
	fmt.Fprintln(w)

	return server.Run(ctx, cfg.InspectAddress())
}

// tickDemo increments a counter until ctx is done. The runtime is owned by
// this goroutine.
func tickDemo(ctx context.Context, rt *reactive.Runtime, interval time.Duration) {
	count := reactive.NewBindingIn(rt, 0).Named("demo")
	doubled := reactive.Map(count, func(v int) int { return v * 2 })
	guard := doubled.Watch(func(int) {})
	defer guard.Release()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count.Update(func(v *int) { *v++ })
		}
	}
}

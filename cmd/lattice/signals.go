package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lattice/internal/config"
	"github.com/vango-dev/lattice/pkg/layout"
	"github.com/vango-dev/lattice/pkg/reactive"
	"github.com/vango-dev/lattice/pkg/scene"
)

func signalsCmd(g *globalOptions) *cobra.Command {
	var (
		steps int
		name  string
	)

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Run a small signal graph and print each propagation",
		Long: `Run a counter and greeting wired through a diamond-shaped signal
graph. Each write prints the values seen by the watcher, the batch
statistics, and the width of the greeting laid out as text.

The summary node depends on count twice, through doubled and parity,
and is evaluated once per write.

Examples:
  lattice signals
  lattice signals --steps=5 --name=Gopher`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return runSignals(cmd.Context(), cmd.OutOrStdout(), cfg, steps, name)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 3, "Number of counter increments")
	cmd.Flags().StringVar(&name, "name", "Lattice", "Name written after the increments")

	return cmd
}

func runSignals(ctx context.Context, w io.Writer, cfg *config.Config, steps int, name string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt := reactive.NewRuntime(
		reactive.WithLogger(newLogger(cfg, io.Discard)),
		reactive.WithObserver(reactive.ObserverFunc(func(s reactive.PropagationStats) {
			info(w, "batch %-6s nodes=%d recomputed=%d notified=%d",
				s.Label, s.Nodes, s.Recomputed, s.Notified)
		})),
	)

	count := reactive.NewBindingIn(rt, 0).Named("count")
	who := reactive.NewBindingIn(rt, "World").Named("name")

	doubled := reactive.Map(count, func(v int) int { return v * 2 }).Named("doubled")
	parity := reactive.Map(count, func(v int) string {
		if v%2 == 0 {
			return "even"
		}
		return "odd"
	}).Named("parity")

	evaluations := 0
	summary := reactive.Map(reactive.Zip(doubled, parity), func(p reactive.Pair[int, string]) string {
		evaluations++
		return fmt.Sprintf("%d is %s", p.First, p.Second)
	}).Named("summary")
	greeting := reactive.Sprintf("Hello, %s! %s", who, summary).Named("greeting")

	engine := layout.NewEngine(layout.WithEnvironment(cfg.Environment()))
	width := func(text string) float64 {
		root := layout.NewText(text, scene.DefaultCharWidth, scene.DefaultLineHeight)
		return engine.Layout(ctx, root, cfg.DefaultProposal()).Size.Width
	}

	guard := greeting.Watch(func(text string) {
		fmt.Fprintf(w, "%-36q width=%g\n", text, width(text))
	})
	defer guard.Release()

	fmt.Fprintf(w, "%-36q width=%g\n", greeting.Get(), width(greeting.Get()))
	writes := 0
	for i := 1; i <= steps; i++ {
		count.Set(i)
		writes++
	}
	if name != who.Get() {
		who.Set(name)
		writes++
	}

	fmt.Fprintln(w)
	success(w, "summary evaluated %d times for %d writes", evaluations, writes)
	return nil
}

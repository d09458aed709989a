package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lattice/internal/config"
	"github.com/vango-dev/lattice/internal/errors"
	"github.com/vango-dev/lattice/pkg/layout"
	"github.com/vango-dev/lattice/pkg/scene"
	"github.com/vango-dev/lattice/pkg/snapshot"
	"github.com/vango-dev/lattice/pkg/telemetry"
)

type layoutOptions struct {
	width    float64
	height   float64
	asJSON   bool
	check    bool
	update   bool
	snapName string
}

func layoutCmd(g *globalOptions) *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Lay out a scene file",
		Long: `Lay out a scene file and print every placement.

The proposal comes from --width and --height, then the scene's own
proposal, then layout.width and layout.height in lattice.json. A zero
dimension is unbounded.

With --update the result is stored as a golden snapshot; with --check it
is compared against the stored one.

Examples:
  lattice layout card.json
  lattice layout card.json --width=320 --json
  lattice layout card.json --check
  lattice layout card.json --update --name=cards/profile`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return runLayout(cmd, cfg, args[0], opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.width, "width", "W", 0, "Proposed width (0 for unbounded)")
	cmd.Flags().Float64VarP(&opts.height, "height", "H", 0, "Proposed height (0 for unbounded)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Compare against the stored snapshot")
	cmd.Flags().BoolVar(&opts.update, "update", false, "Store the result as the snapshot")
	cmd.Flags().StringVar(&opts.snapName, "name", "", "Snapshot name (default: the scene name)")
	cmd.MarkFlagsMutuallyExclusive("check", "update")

	return cmd
}

func runLayout(cmd *cobra.Command, cfg *config.Config, file string, opts layoutOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return errors.New("E401").WithPath(file)
	}
	if err != nil {
		return errors.New("E401").WithPath(file).Wrap(err)
	}
	sc, err := scene.Parse(filepath.Base(file), data)
	if err != nil {
		return onDisk(err, file)
	}

	p, err := proposalFor(cmd, cfg, sc, opts)
	if err != nil {
		return err
	}

	engineOpts := []layout.EngineOption{
		layout.WithEnvironment(cfg.Environment()),
		layout.WithLogger(newLogger(cfg, cmd.ErrOrStderr())),
	}
	if cfg.Inspect.Tracing {
		engineOpts = append(engineOpts, layout.WithObserver(telemetry.NewTracer()))
	}
	res := layout.NewEngine(engineOpts...).Layout(ctx, sc.Root, p)

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot.New(sc.Name, p, res)); err != nil {
			return err
		}
	} else {
		printPlacements(out, sc.Name, p, res)
	}

	if !opts.check && !opts.update {
		return nil
	}
	name := opts.snapName
	if name == "" {
		name = sc.Name
	}
	snap := snapshot.New(name, p, res)
	store, err := snapshotStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Progress goes to stderr so --json output stays machine readable.
	status := cmd.ErrOrStderr()
	if opts.update {
		if err := store.Put(ctx, snap); err != nil {
			return err
		}
		success(status, "Stored snapshot %s", name)
		return nil
	}

	want, err := store.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := snapshot.Compare(want, snap); err != nil {
		return err
	}
	success(status, "Snapshot %s matches", name)
	return nil
}

// onDisk points a scene error located in the parsed document at file as the
// user named it, so the reported position opens in an editor.
func onDisk(err error, file string) error {
	var le *errors.LatticeError
	if stderrors.As(err, &le) && le.Location != nil {
		le.WithLocation(file, le.Location.Line, le.Location.Column)
	}
	return err
}

func proposalFor(cmd *cobra.Command, cfg *config.Config, sc *scene.Scene, opts layoutOptions) (layout.Proposal, error) {
	p := sc.ProposalOr(cfg.DefaultProposal())
	flags := []struct {
		name string
		v    float64
		dst  *layout.Extent
	}{
		{"width", opts.width, &p.Width},
		{"height", opts.height, &p.Height},
	}
	for _, f := range flags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return p, errors.New("E402").WithPath("--"+f.name).
				WithDetailf("--%s is %g", f.name, f.v)
		}
		if f.v == 0 {
			*f.dst = layout.Unbounded
		} else {
			*f.dst = layout.Fixed(f.v)
		}
	}
	return p, nil
}

// printPlacements prints the placement tree, one node per line, indented by
// depth.
func printPlacements(w io.Writer, name string, p layout.Proposal, res layout.Result) {
	fmt.Fprintf(w, "%s  proposal %v  size %gx%g\n\n", name, p, res.Size.Width, res.Size.Height)
	for _, pl := range res.Placements {
		label := pl.Kind
		if pl.ID != "" {
			label += " " + pl.ID
		}
		indent := strings.Repeat("  ", pl.Depth)
		fmt.Fprintf(w, "  %-32s %v\n", indent+label, pl.Rect)
	}
	fmt.Fprintln(w)
	info(w, "%d nodes, %d measurements, %d cache hits, %d fallbacks",
		res.Stats.Nodes, res.Stats.Measures, res.Stats.CacheHits, res.Stats.Fallbacks)
	if res.Stats.Fallbacks > 0 {
		warn(w, "Some nodes could not honor an unbounded proposal; rerun with --log-level=debug for details")
	}
}

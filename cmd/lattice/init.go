package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lattice/internal/config"
	"github.com/vango-dev/lattice/internal/errors"
)

type initOptions struct {
	name      string
	port      int
	snapshots string
}

func initCmd() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a lattice.json with the default settings",
		Long: `Write lattice.json into dir (default: the working directory).

A new file gets the default settings, named after the directory. When the
file already exists, the given flags update it in place.`,
		Example: `  lattice init
  lattice init ./ui --port 7171
  lattice init --snapshots goldens`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Project name (default: the directory name)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", config.DefaultPort, "Inspector port")
	cmd.Flags().StringVar(&opts.snapshots, "snapshots", config.DefaultSnapshotDir, "Snapshot directory, relative to lattice.json")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts initOptions) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	existed := config.Exists(abs)
	changed := cmd.Flags().Changed("name") || cmd.Flags().Changed("port") || cmd.Flags().Changed("snapshots")
	if existed && !changed {
		return errors.New("E404").WithPath(filepath.Join(abs, config.ConfigFileName)).
			WithDetail(config.ConfigFileName + " already exists").
			WithSuggestion("Pass --name, --port or --snapshots to update it")
	}

	// Load yields the defaults, bound to dir, when no file exists yet.
	cfg, err := config.Load(abs)
	if err != nil {
		return err
	}
	if !existed {
		cfg.Name = filepath.Base(abs)
	}
	if cmd.Flags().Changed("name") {
		cfg.Name = opts.name
	}
	if cmd.Flags().Changed("port") {
		cfg.Inspect.Port = opts.port
	}
	if cmd.Flags().Changed("snapshots") {
		cfg.Snapshots.Dir = opts.snapshots
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if existed {
		success(w, "Updated %s", cfg.Path())
	} else {
		success(w, "Created %s", cfg.Path())
	}
	info(w, "Inspector: %s", cfg.InspectURL())
	info(w, "Snapshots: %s", cfg.SnapshotsPath())
	return nil
}

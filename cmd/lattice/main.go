package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lattice/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ┌─┐┌┬┐┌┬┐┬┌─┐┌─┐
  ║  ├─┤ │  │ ││  ├┤
  ╩═╝┴ ┴ ┴  ┴ ┴└─┘└─┘
`

// Error output formats selected by --error-format.
const (
	errorFormatText    = "text"
	errorFormatCompact = "compact"
	errorFormatJSON    = "json"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and reports a failure on stderr in the
// selected error format. It returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		format, _ := cmd.PersistentFlags().GetString("error-format")
		reportError(stderr, err, format)
		return 1
	}
	return 0
}

func reportError(w io.Writer, err error, format string) {
	var le *errors.LatticeError
	isLattice := stderrors.As(err, &le)

	switch format {
	case errorFormatCompact:
		if isLattice {
			fmt.Fprintln(w, le.FormatCompact())
			return
		}
		fmt.Fprintln(w, err)
	case errorFormatJSON:
		if isLattice {
			fmt.Fprintln(w, le.FormatJSON())
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
	default:
		errors.Fprint(w, err)
	}
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "lattice",
		Short: "Reactive signals and two-phase layout",
		Long: `Lattice lays out trees of views from JSON scene files and drives
them with glitch-free reactive signals.

  • Propose, measure and place layout passes
  • Stretch, weights and priority-ordered shrinking
  • Golden snapshots on disk or in S3
  • An inspector with Prometheus metrics and live events`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to lattice.json (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output (also set by NO_COLOR)")
	rootCmd.PersistentFlags().StringVar(&opts.errorFormat, "error-format", errorFormatText, "Error output format: text, compact or json")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.noColor || os.Getenv("NO_COLOR") != "" {
			errors.DisableColors()
		} else {
			errors.EnableColors()
		}
		switch opts.errorFormat {
		case errorFormatText, errorFormatCompact, errorFormatJSON:
			return nil
		}
		return errors.New("E404").WithPath("--error-format").
			WithDetailf("--error-format is %q", opts.errorFormat).
			WithSuggestion("Use text, compact or json")
	}

	rootCmd.AddCommand(
		initCmd(),
		layoutCmd(&opts),
		signalsCmd(&opts),
		inspectCmd(&opts),
		explainCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", colored("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", colored("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}

func colored(code, text string) string {
	if !errors.ColorsEnabled() {
		return text
	}
	return code + text + "\033[0m"
}

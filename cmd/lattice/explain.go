package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lattice/internal/errors"
)

func explainCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Describe one error code, or list every code when none is given.

Codes are grouped by category: E1xx config, E2xx scene, E3xx snapshot,
E4xx cli and E5xx runtime.`,
		Example: `  lattice explain E202
  lattice explain --category scene`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				return listCodes(w, errors.Category(category))
			}
			return explainCode(w, strings.ToUpper(args[0]))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list codes in this category")

	return cmd
}

func listCodes(w io.Writer, category errors.Category) error {
	codes := errors.Codes(category)
	if len(codes) == 0 {
		return errors.New("E404").WithPath("--category").
			WithDetailf("no error codes in category %q", category).
			WithSuggestion("Use config, scene, snapshot, cli or runtime")
	}
	for _, code := range codes {
		t, _ := errors.GetTemplate(code)
		fmt.Fprintf(w, "%s  %-9s %s\n", code, t.Category, t.Message)
	}
	return nil
}

func explainCode(w io.Writer, code string) error {
	t, ok := errors.GetTemplate(code)
	if !ok {
		return errors.New("E404").WithPath(code).
			WithDetailf("%s is not a lattice error code", code).
			WithSuggestion("Run lattice explain to list every code")
	}
	fmt.Fprintf(w, "%s: %s (%s)\n\n", code, t.Message, t.Category)
	fmt.Fprintf(w, "  %s\n\n", t.Detail)
	fmt.Fprintf(w, "  Learn more: %s\n", t.DocURL)
	return nil
}

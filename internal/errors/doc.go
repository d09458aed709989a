// Package errors provides structured, actionable error messages for lattice
// tooling.
//
// # Error Categories
//
//   - config: lattice.json problems
//   - scene: scene documents that cannot be turned into a layout tree
//   - snapshot: golden snapshot storage and comparison
//   - cli: command-line usage and server startup
//   - runtime: failures reported from the signal graph
//
// # Error Codes
//
// Each error has a unique code (e.g., "E201") that maps to a short message,
// a detailed explanation and a documentation URL.
//
// # Usage
//
//	err := errors.New("E203").
//	    WithPath("root.children[1]").
//	    WithDetailf("unknown stretch %q", "sideways").
//	    WithSuggestion("Use none, horizontal, vertical, both, main or cross")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E203: Invalid node attribute
//	//
//	//   at root.children[1]
//	//
//	//   unknown stretch "sideways"
//	//
//	//   Hint: Use none, horizontal, vertical, both, main or cross
//	//
//	//   Learn more: https://lattice.vango.dev/docs/errors/E203
package errors

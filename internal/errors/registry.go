package errors

import "slices"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://lattice.vango.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Failed to read configuration",
		Detail:   "lattice.json exists but could not be read or is not valid JSON.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid inspector port",
		Detail:   "inspect.port must be between 1 and 65535.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "logLevel must be one of debug, info, warn or error.",
		DocURL:   docBase + "E103",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid layout defaults",
		Detail:   "layout.spacing must be a non-negative number and layout.alignment one of start, center or end.",
		DocURL:   docBase + "E104",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Incomplete snapshot storage",
		Detail:   "snapshots.s3 requires a bucket. Leave the section out to store snapshots on disk.",
		DocURL:   docBase + "E105",
	},

	// ============================================
	// Scene Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryScene,
		Message:  "Malformed scene document",
		Detail:   "The scene is not valid JSON or does not match the node schema.",
		DocURL:   docBase + "E201",
	},
	"E202": {
		Category: CategoryScene,
		Message:  "Unknown node type",
		Detail:   "Every node needs a type: leaf, text, spacer, hstack, vstack, overlay, padding, frame or relative.",
		DocURL:   docBase + "E202",
	},
	"E203": {
		Category: CategoryScene,
		Message:  "Invalid node attribute",
		Detail:   "An attribute value is out of range or not one of the accepted names.",
		DocURL:   docBase + "E203",
	},
	"E204": {
		Category: CategoryScene,
		Message:  "Wrong number of children",
		Detail:   "Leaves take no children. padding, frame and relative wrap exactly one child.",
		DocURL:   docBase + "E204",
	},
	"E205": {
		Category: CategoryScene,
		Message:  "Duplicate node id",
		Detail:   "Node ids identify placements and must be unique within a scene.",
		DocURL:   docBase + "E205",
	},

	// ============================================
	// Snapshot Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategorySnapshot,
		Message:  "Snapshot not found",
		Detail:   "No stored snapshot exists under this name. Run with --update to record one.",
		DocURL:   docBase + "E301",
	},
	"E302": {
		Category: CategorySnapshot,
		Message:  "Layout does not match snapshot",
		Detail:   "The computed placements differ from the stored snapshot.",
		DocURL:   docBase + "E302",
	},
	"E303": {
		Category: CategorySnapshot,
		Message:  "Snapshot storage failed",
		Detail:   "The snapshot store returned an error while reading or writing.",
		DocURL:   docBase + "E303",
	},
	"E304": {
		Category: CategorySnapshot,
		Message:  "Invalid snapshot name",
		Detail:   "Snapshot names may contain letters, digits, '.', '-', '_' and '/' and must not start with '/' or contain '..'.",
		DocURL:   docBase + "E304",
	},

	// ============================================
	// CLI Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryCLI,
		Message:  "Scene file not found",
		Detail:   "The scene file passed to the command does not exist.",
		DocURL:   docBase + "E401",
	},
	"E402": {
		Category: CategoryCLI,
		Message:  "Invalid proposal",
		Detail:   "--width and --height must be positive, or zero for an unbounded axis.",
		DocURL:   docBase + "E402",
	},
	"E403": {
		Category: CategoryCLI,
		Message:  "Inspector failed",
		Detail:   "The inspector server could not start or stopped with an error.",
		DocURL:   docBase + "E403",
	},
	"E404": {
		Category: CategoryCLI,
		Message:  "Invalid option",
		Detail:   "A command-line option or argument has a value the command does not accept.",
		DocURL:   docBase + "E404",
	},

	// ============================================
	// Runtime Errors (E501-E599)
	// ============================================

	"E501": {
		Category: CategoryRuntime,
		Message:  "Derivation panicked",
		Detail:   "A derivation or watcher panicked during propagation. Values computed before the panic remain installed; the rest recompute on next read.",
		DocURL:   docBase + "E501",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in the given category, or all codes
// when category is empty.
func Codes(category Category) []string {
	var codes []string
	for code, t := range registry {
		if category == "" || t.Category == category {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

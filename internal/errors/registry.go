package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconcile Errors (R001-R019)
	// ============================================

	"R001": {
		Category: CategoryReconcile,
		Message:  "Invalid virtual node",
	},
	"R002": {
		Category: CategoryReconcile,
		Message:  "Lifecycle callback failed",
	},
	"R003": {
		Category: CategoryReconcile,
		Message:  "Duplicate reconciliation key",
	},
	"R005": {
		Category: CategoryReconcile,
		Message:  "Node is detached",
		Detail:   "The host node has no parent and none was given.",
	},

	// ============================================
	// Host Errors (R020-R039)
	// ============================================

	"R004": {
		Category: CategoryHost,
		Message:  "Host mutation failed",
	},
	"R020": {
		Category: CategoryHost,
		Message:  "Node not owned by this document",
	},
	"R021": {
		Category: CategoryHost,
		Message:  "Node is not a child of the parent",
	},
	"R022": {
		Category: CategoryHost,
		Message:  "Hierarchy request error",
		Detail:   "A node cannot be inserted into itself, one of its descendants, or a text node.",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "recon.json could not be read or parsed.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},

	// ============================================
	// Snapshot Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategorySnapshot,
		Message:  "Snapshot upload failed",
	},
	"E151": {
		Category: CategorySnapshot,
		Message:  "Snapshot destination not configured",
		Detail:   "Set snapshot.bucket in recon.json or pass --bucket.",
	},

	// ============================================
	// CLI Errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

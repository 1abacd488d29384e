package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Config faults (B001-B009), fatal at setup time.
	"B001": {
		Category: CategoryConfig,
		Message:  "Component kind already registered",
		Detail:   "Each component kind may be registered once per registry.",
	},
	"B002": {
		Category: CategoryConfig,
		Message:  "Missing template",
		Detail:   "A collection needs a prototype node to clone for every entry.",
	},
	"B003": {
		Category: CategoryConfig,
		Message:  "Missing container",
		Detail:   "A collection needs a container node to append entries to.",
	},
	"B004": {
		Category: CategoryConfig,
		Message:  "Unknown component kind",
		Detail:   "The requested kind was never registered.",
	},

	// Binding faults (B010-B019), reported per entry.
	"B010": {
		Category: CategoryBinding,
		Message:  "Entry is missing its primary key",
		Detail:   "List snapshots must carry the configured primary-key field on every entry.",
	},
	"B011": {
		Category: CategoryBinding,
		Message:  "Collection element limit reached",
		Detail:   "The entry was skipped because the collection holds its maximum number of elements.",
	},
	"B012": {
		Category: CategoryBinding,
		Message:  "Re-entrant call: already rendering",
		Detail:   "A render was started from inside another render on the same collection, or a message was delivered while the feed was routing another. Collections reject the call; feeds queue the message.",
	},
	"B013": {
		Category: CategoryBinding,
		Message:  "Render data could not be converted",
		Detail:   "Render accepts maps and structs.",
	},

	// Handler faults (B020-B029).
	"B020": {
		Category: CategoryHandler,
		Message:  "Event handler panicked",
		Detail:   "The panic was recovered; sibling handlers still ran.",
	},

	// Protocol faults (B030-B039).
	"B030": {
		Category: CategoryProtocol,
		Message:  "Invalid message",
	},
	"B031": {
		Category: CategoryProtocol,
		Message:  "Invalid snapshot",
		Detail:   "A snapshot must be a JSON array of objects or a JSON object of objects.",
	},
	"B032": {
		Category: CategoryProtocol,
		Message:  "Feed connection failed",
	},

	// Config loading (B040-B049).
	"B040": {
		Category: CategoryConfig,
		Message:  "Could not load configuration",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

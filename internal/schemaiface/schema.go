// Package schemaiface describes the JSON schema validator collaborator
// the core does not implement itself. A Validator can check config
// values and service configuration payloads against a schema; nothing
// in this module invokes one automatically when a value is stored.
package schemaiface

// Validator validates a value (already the Go representation of decoded
// JSON — map[string]any, []any, string, float64, bool, nil) against a
// schema (itself a map[string]any, or raw JSON schema bytes).
type Validator interface {
	// Validate checks value against the whole schema.
	Validate(schema any, value any) error

	// ValidateProperty checks value against the subschema reached by
	// walking path through schema's "properties"; array "items"
	// subschemas are not descended. It fails if no subschema exists at
	// path.
	ValidateProperty(schema any, path []string, value any) error
}

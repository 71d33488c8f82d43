// Package configiface describes the path-addressed, validated
// configuration collaborator the core accepts but does not implement
// itself. Any type satisfying Config can back a service's Configure call.
package configiface

// ChangeEvent is delivered to Config subscribers whenever a mutation
// touches a subtree.
type ChangeEvent struct {
	ObjectPath  []string
	TriggeredBy string
}

// ParserFunc validates and/or normalises a value before it is stored
// under a top-level key.
type ParserFunc func(value any) (any, error)

// Config is a path-addressed, keyed configuration store with per-top-
// level validators and change notification.
type Config interface {
	// Get returns the value at path (dot-separated, e.g. "a.b.c", or a
	// pre-split []string), and whether it was present.
	Get(path any) (any, bool)

	// GetDefined returns the value at path, failing if absent.
	GetDefined(path any) (any, error)

	// Set stores value at path. It is a no-op if the existing value is
	// already structurally equal to value. triggeredBy is attached to the
	// resulting ChangeEvent for observers that need to avoid reacting to
	// their own writes.
	Set(path any, value any, triggeredBy string) error

	// SetParser installs (or, with fn == nil, removes) the validator for
	// topLevelKey. It runs on every mutation that touches that subtree.
	SetParser(topLevelKey string, fn ParserFunc)

	// Subscribe registers cb to receive every ChangeEvent. It returns an
	// unsubscribe thunk.
	Subscribe(cb func(ChangeEvent)) func()
}

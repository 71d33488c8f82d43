package value

import "errors"

// Error kinds of the components in this package. Callers match against
// these with errors.Is. The state machine and service layers use the
// separate taxonomy in internal/coreerr.
var (
	// ErrInvalidArgument is returned when an operation is called with
	// a malformed argument (e.g. ValueStoreMap.Set handed a value that
	// is itself an observable store).
	ErrInvalidArgument = errors.New("value: invalid argument")

	// ErrInvalidState marks an operation attempted from a state that
	// forbids it. No operation in this package returns it:
	// Observable.Subscribe accepts a callback that is already
	// registered.
	ErrInvalidState = errors.New("value: invalid state")

	// ErrDestroyed marks use of a destroyed store. No operation in this
	// package returns it: after DerivedObservable.Destroy, Get returns
	// the zero value and Subscribe returns a no-op Unsubscribe.
	ErrDestroyed = errors.New("value: store destroyed")

	// ErrNotSupported is returned by operations a store does not
	// implement, such as Set/Update on a DerivedObservable.
	ErrNotSupported = errors.New("value: operation not supported")
)

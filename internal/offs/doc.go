// Package offs provides a registry of labelled cleanup thunks.
//
// A Registry collects unsubscribe/cleanup functions under a label (a plain
// string, or an opaque symbol allocated by the registry itself) and lets a
// caller invoke one, invoke them all, or schedule one for delayed execution
// with a cancellable timer. It is the bookkeeping that internal/lifecycle
// uses to tear a service's dependency subscriptions down in registration
// order when the service stops.
package offs

// Package value implements the observable value layer: Observable,
// DedupObservable, DerivedObservable and ValueStoreMap. These are the
// leaf building blocks everything else in this module is wired on top
// of — a Service's own state, a Service's dependency-availability
// flag, and a StateMachine's {current, next} pair are all, underneath,
// an Observable.
package value

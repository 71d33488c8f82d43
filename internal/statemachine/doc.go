// Package statemachine drives a labelled, directed state graph through
// user-supplied stepwise transitions bounded by a step count and a time
// budget, with optional cancellation on failure.
//
// A StateMachine is itself a value.Observable of the current/next state
// pair, so callers can subscribe to transition progress the same way they
// subscribe to any other observable value.
package statemachine

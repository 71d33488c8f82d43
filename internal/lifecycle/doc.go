// Package lifecycle implements ServiceBase: a named, long-lived component
// with its own observable state, an observable "all dependencies
// available" flag, a target-state transition mechanism with user-supplied
// handlers, and an Offs-based cleanup registry that drains whenever the
// service stops.
//
// A service's externally observed state merges its own reported state
// with the availability of the services it depends on: a Running service
// whose dependencies are not all Running is observed as Unavailable.
package lifecycle

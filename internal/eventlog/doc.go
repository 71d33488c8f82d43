// Package eventlog renders the event observable every lifecycle.Service
// exposes into human-readable lines, using a Sprig-equipped text/template
// whose format string is passed to New.
package eventlog

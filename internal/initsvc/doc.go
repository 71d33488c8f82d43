// Package initsvc provides InitService, the singleton orchestrator that
// registers named services with their dependencies, boots them in
// registration order, and shuts them down in the reverse order.
//
// InitService is itself built on lifecycle.ServiceBase: booting is
// requesting its own target state Running, and shutting down is
// requesting Stopped. Each call walks the registration list and drives
// the corresponding service's own target state, emitting an OTel span per
// service transition and, once fully booted, notifying systemd (when
// running under it) that startup has completed.
package initsvc

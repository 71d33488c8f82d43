package cmd

import (
	"reactor/internal/demo"
	"reactor/internal/initsvc"
)

// buildInitService constructs an InitService pre-registered with the
// illustrative demo service graph (a dependency-free database and a
// worker depending on it). A real deployment would instead register its
// own lifecycle.Service implementations; the demo graph exists so the
// CLI has something to boot, inspect, and drive out of the box.
func buildInitService() (*initsvc.InitService, error) {
	init := initsvc.New()

	_, _, regs := demo.Registrations(
		demo.DatabaseConfig{Host: "127.0.0.1", Port: 5432},
		demo.WorkerConfig{DSNTemplate: "postgres://{{ host }}:{{ port }}/jobs"},
	)

	for _, reg := range regs {
		if err := init.Register(reg); err != nil {
			return nil, err
		}
	}
	return init, nil
}

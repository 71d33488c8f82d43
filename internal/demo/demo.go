// Package demo wires two illustrative lifecycle.Service implementations —
// a dependency-free "database" and a "worker" that depends on it — used
// by cmd/ and by this package's own integration test to exercise a full
// boot/shutdown cycle end to end.
package demo

import (
	"fmt"

	"reactor/internal/coreerr"
	"reactor/internal/initsvc"
	"reactor/internal/lifecycle"
	"reactor/internal/template"
)

// DatabaseConfig configures a Database service.
type DatabaseConfig struct {
	Host string
	Port int
}

// Database is a dependency-free service standing in for a datastore.
type Database struct {
	*lifecycle.ServiceBase
	cfg DatabaseConfig
}

// NewDatabase constructs an unconfigured Database.
func NewDatabase() *Database {
	d := &Database{}
	d.ServiceBase = lifecycle.NewBase("database", func(cfg any) error {
		c, ok := cfg.(DatabaseConfig)
		if !ok {
			return coreerr.ErrInvalidArgument
		}
		d.cfg = c
		return nil
	})
	d.SetTransitionHandler(lifecycle.Running, func(setState func(lifecycle.ServiceState)) error {
		d.EmitEvent(fmt.Sprintf("listening on %s:%d", d.cfg.Host, d.cfg.Port))
		setState(lifecycle.Running)
		return nil
	})
	d.SetTransitionHandler(lifecycle.Stopped, func(setState func(lifecycle.ServiceState)) error {
		d.EmitEvent("connection closed")
		setState(lifecycle.Stopped)
		return nil
	})
	return d
}

// Endpoint exposes the connection coordinates as a template context, for
// dependants that want to interpolate them into their own configuration.
func (d *Database) Endpoint() map[string]any {
	return map[string]any{"host": d.cfg.Host, "port": d.cfg.Port}
}

// WorkerConfig configures a Worker service. DSNTemplate may reference
// {{ host }} and {{ port }}, resolved against its database dependency's
// Endpoint at start time.
type WorkerConfig struct {
	DSNTemplate string
}

// Worker depends on a Database and resolves a templated connection
// string from it on every start.
type Worker struct {
	*lifecycle.ServiceBase
	engine      *template.Engine
	dsnTemplate string
	db          *Database
}

// NewWorker constructs a Worker depending on db.
func NewWorker(db *Database) *Worker {
	w := &Worker{engine: template.New(), db: db}
	w.ServiceBase = lifecycle.NewBase("worker", func(cfg any) error {
		c, ok := cfg.(WorkerConfig)
		if !ok {
			return coreerr.ErrInvalidArgument
		}
		if err := w.engine.ValidateContext(c.DSNTemplate, map[string]any{"host": "", "port": 0}); err != nil {
			return fmt.Errorf("worker: %w", err)
		}
		w.dsnTemplate = c.DSNTemplate
		return nil
	})
	w.SetTransitionHandler(lifecycle.Running, func(setState func(lifecycle.ServiceState)) error {
		dsn, err := w.engine.Replace(w.dsnTemplate, w.db.Endpoint())
		if err != nil {
			return fmt.Errorf("worker: resolving dsn: %w", err)
		}
		w.EmitEvent(fmt.Sprintf("connecting via %v", dsn))
		setState(lifecycle.Running)
		return nil
	})
	w.SetTransitionHandler(lifecycle.Stopped, func(setState func(lifecycle.ServiceState)) error {
		setState(lifecycle.Stopped)
		return nil
	})
	return w
}

// Registrations builds a database and a dependent worker and returns the
// initsvc.Registration pair in boot order (database first).
func Registrations(dbCfg DatabaseConfig, workerCfg WorkerConfig) (db *Database, worker *Worker, regs []initsvc.Registration) {
	db = NewDatabase()
	worker = NewWorker(db)

	regs = []initsvc.Registration{
		{Name: "database", Service: db, Config: dbCfg, StartOnBoot: true},
		{Name: "worker", Service: worker, Config: workerCfg, StartOnBoot: true, Dependencies: []string{"database"}},
	}
	return db, worker, regs
}

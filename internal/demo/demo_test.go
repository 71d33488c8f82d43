package demo

import (
	"strings"
	"testing"

	"reactor/internal/initsvc"
	"reactor/internal/lifecycle"
	"reactor/internal/value"
)

func TestWorkerResolvesDSNFromDatabaseEndpoint(t *testing.T) {
	init := initsvc.New()

	db, worker, regs := Registrations(
		DatabaseConfig{Host: "127.0.0.1", Port: 5432},
		WorkerConfig{DSNTemplate: "postgres://{{ host }}:{{ port }}/jobs"},
	)

	var events []string
	worker.Events().Subscribe(func(v any, _ value.Unsubscribe) {
		if m, ok := v.(map[string]any); ok {
			if msg, ok := m["message"].(string); ok {
				events = append(events, msg)
			}
		}
	}, false)

	for _, r := range regs {
		if err := init.Register(r); err != nil {
			t.Fatalf("register %s: %v", r.Name, err)
		}
	}

	if err := init.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if db.GetState() != lifecycle.Running || worker.GetState() != lifecycle.Running {
		t.Fatalf("expected both running after boot")
	}

	found := false
	for _, e := range events {
		if strings.Contains(e, "postgres://127.0.0.1:5432/jobs") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a connecting event with resolved dsn, got %v", events)
	}

	if err := init.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

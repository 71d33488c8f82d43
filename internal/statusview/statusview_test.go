package statusview

import (
	"strings"
	"testing"

	"reactor/internal/initsvc"
	"reactor/internal/lifecycle"
)

func runningService(name string) *lifecycle.ServiceBase {
	svc := lifecycle.NewBase(name, nil)
	svc.SetTransitionHandler(lifecycle.Running, func(setState func(lifecycle.ServiceState)) error {
		setState(lifecycle.Running)
		return nil
	})
	svc.SetTransitionHandler(lifecycle.Stopped, func(setState func(lifecycle.ServiceState)) error {
		setState(lifecycle.Stopped)
		return nil
	})
	return svc
}

func TestViewReflectsStateChanges(t *testing.T) {
	a := runningService("A")
	b := runningService("B")

	regs := []initsvc.Registration{
		{Name: "A", Service: a},
		{Name: "B", Service: b},
	}

	view := New(regs)
	defer view.Close()

	rows := view.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.State != lifecycle.Stopped {
			t.Fatalf("expected %s to start Stopped, got %s", r.Name, r.State)
		}
	}

	var gotNotification bool
	off := view.Subscribe(func(rows []Row) {
		gotNotification = true
	}, false)
	defer off()

	if err := a.SetTargetState(lifecycle.Running); err != nil {
		t.Fatalf("SetTargetState: %v", err)
	}
	if !gotNotification {
		t.Fatal("expected a notification after A transitioned to Running")
	}

	rows = view.Rows()
	for _, r := range rows {
		if r.Name == "A" && r.State != lifecycle.Running {
			t.Fatalf("expected A Running, got %s", r.State)
		}
	}
}

func TestRenderProducesATable(t *testing.T) {
	a := runningService("A")
	regs := []initsvc.Registration{{Name: "A", Service: a}}

	view := New(regs)
	defer view.Close()

	out := view.Render()
	if !strings.Contains(out, "A") || !strings.Contains(out, "Service") {
		t.Fatalf("expected rendered table to contain service name and header, got %q", out)
	}
}

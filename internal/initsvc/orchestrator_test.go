package initsvc

import (
	"errors"
	"testing"

	"reactor/internal/coreerr"
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

// TestBootShutdownOrdering mirrors spec scenario 4: B depends on A; both
// are registered with A first. Boot must bring A up before B, and
// shutdown must stop B before A.
func TestBootShutdownOrdering(t *testing.T) {
	init := New()

	a := runningService("A")
	b := runningService("B")

	var order []string
	wrapHandler := func(name string, base *lifecycle.ServiceBase, target lifecycle.ServiceState) {
		base.SetTransitionHandler(target, func(setState func(lifecycle.ServiceState)) error {
			order = append(order, name+":"+target.String())
			setState(target)
			return nil
		})
	}
	wrapHandler("A", a, lifecycle.Running)
	wrapHandler("A", a, lifecycle.Stopped)
	wrapHandler("B", b, lifecycle.Running)
	wrapHandler("B", b, lifecycle.Stopped)

	if err := init.Register(Registration{Name: "A", Service: a, StartOnBoot: true}); err != nil {
		t.Fatalf("register A: %v", err)
	}
	if err := init.Register(Registration{Name: "B", Service: b, StartOnBoot: true, Dependencies: []string{"A"}}); err != nil {
		t.Fatalf("register B: %v", err)
	}

	if err := init.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if len(order) != 2 || order[0] != "A:running" || order[1] != "B:running" {
		t.Fatalf("expected A before B on boot, got %v", order)
	}

	aSvc, _ := init.Service("A", true)
	bSvc, _ := init.Service("B", true)
	if aSvc.GetState() != lifecycle.Running || bSvc.GetState() != lifecycle.Running {
		t.Fatalf("expected both Running after boot")
	}

	order = nil
	if err := init.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if len(order) != 2 || order[0] != "B:stopped" || order[1] != "A:stopped" {
		t.Fatalf("expected B before A on shutdown, got %v", order)
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	init := New()
	a := runningService("A")
	b := runningService("A")

	if err := init.Register(Registration{Service: a}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := init.Register(Registration{Service: b}); !errors.Is(err, coreerr.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestBootAbortsOnFirstFailure(t *testing.T) {
	init := New()
	a := lifecycle.NewBase("A", nil)
	boom := errors.New("boom")
	a.SetTransitionHandler(lifecycle.Running, func(setState func(lifecycle.ServiceState)) error {
		return boom
	})
	b := runningService("B")

	init.Register(Registration{Name: "A", Service: a, StartOnBoot: true})
	init.Register(Registration{Name: "B", Service: b, StartOnBoot: true})

	if err := init.Boot(); err == nil {
		t.Fatal("expected boot to fail")
	}
	if bSvc, _ := init.Service("B", false); bSvc.GetState() == lifecycle.Running {
		t.Fatal("expected B to never have started after A's boot failure aborted the walk")
	}
}

func TestServiceNotFound(t *testing.T) {
	init := New()
	if _, err := init.Service("missing", false); !errors.Is(err, coreerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStartStopServiceByName(t *testing.T) {
	init := New()
	a := runningService("A")
	init.Register(Registration{Name: "A", Service: a, StartOnBoot: false})

	if err := init.StartService("A"); err != nil {
		t.Fatalf("StartService: %v", err)
	}
	svc, err := init.Service("A", true)
	if err != nil {
		t.Fatalf("expected A Running, got error: %v", err)
	}
	if err := init.StopService("A"); err != nil {
		t.Fatalf("StopService: %v", err)
	}
	if svc.GetState() != lifecycle.Stopped {
		t.Fatalf("expected A Stopped, got %s", svc.GetState())
	}
}

package initsvc

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"reactor/internal/coreerr"
	"reactor/internal/lifecycle"
	"reactor/pkg/logging"
)

// InitService is the singleton orchestrator. It is itself a
// lifecycle.Service: booting is requesting its own target state Running,
// shutting down is requesting Stopped.
type InitService struct {
	*lifecycle.ServiceBase

	registrations []Registration
	byName        map[string]lifecycle.Service

	watchdogStop chan struct{}
	startGroup   singleflight.Group
}

// New constructs an empty InitService and wires its own Running/Stopped
// transition handlers to the boot/shutdown walks.
func New() *InitService {
	s := &InitService{
		ServiceBase: lifecycle.NewBase("InitService", nil),
		byName:      make(map[string]lifecycle.Service),
	}
	s.SetTransitionHandler(lifecycle.Running, s.runBoot)
	s.SetTransitionHandler(lifecycle.Stopped, s.runShutdown)
	return s
}

// ResolveService implements lifecycle.Resolver for name-based
// SetDependency calls.
func (s *InitService) ResolveService(name string) (lifecycle.Service, error) {
	svc, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, coreerr.ErrNotFound)
	}
	return svc, nil
}

// Register adds reg to the registry. Names must be unique; an empty Name
// adopts the service's own reported name. Configure is invoked on the
// service with reg.Config, and SetDependency is invoked for each declared
// dependency, in order.
func (s *InitService) Register(reg Registration) error {
	name := reg.Name
	if name == "" {
		name = reg.Service.Name()
	}
	if _, exists := s.byName[name]; exists {
		return fmt.Errorf("%s: %w", name, coreerr.ErrAlreadyRegistered)
	}

	if rs, ok := reg.Service.(resolverSetter); ok {
		rs.SetResolver(s)
	}

	if err := reg.Service.Configure(reg.Config); err != nil {
		return fmt.Errorf("configure %s: %w", name, err)
	}

	for _, dep := range reg.Dependencies {
		if err := reg.Service.SetDependency(dep); err != nil {
			return fmt.Errorf("%s: dependency %s: %w", name, dep, err)
		}
	}

	reg.Name = name
	s.byName[name] = reg.Service
	s.registrations = append(s.registrations, reg)
	return nil
}

// Boot walks registrations in registration order, starting every service
// whose StartOnBoot is true. The first failure aborts boot, leaving
// already-Running services Running.
func (s *InitService) Boot() error {
	// InitService itself needs no external configuration payload; auto-
	// configure on first boot if the caller never called Configure.
	if s.ExpectConfigured() != nil {
		if err := s.Configure(nil); err != nil {
			return err
		}
	}
	return s.SetTargetState(lifecycle.Running)
}

func (s *InitService) runBoot(setState func(lifecycle.ServiceState)) error {
	ctx := context.Background()
	for _, reg := range s.registrations {
		if !reg.StartOnBoot {
			continue
		}
		_, span := startSpan(ctx, "boot."+reg.Name)
		err := reg.Service.SetTargetState(lifecycle.Running)
		span.End()
		if err != nil {
			return fmt.Errorf("boot %s: %w", reg.Name, err)
		}
		logging.Info("initsvc", "started %s", reg.Name)
	}

	setState(lifecycle.Running)
	notifySystemdReady()

	s.watchdogStop = make(chan struct{})
	go watchdogLoop(s.watchdogStop)

	return nil
}

// Shutdown walks registrations in reverse registration order, stopping
// every service regardless of StartOnBoot. Per-service failures are
// logged but do not abort the walk; only the first failure (if any) is
// returned, and later ones appear in the log only.
func (s *InitService) Shutdown() error {
	return s.SetTargetState(lifecycle.Stopped)
}

func (s *InitService) runShutdown(setState func(lifecycle.ServiceState)) error {
	notifySystemdStopping()
	if s.watchdogStop != nil {
		close(s.watchdogStop)
		s.watchdogStop = nil
	}

	ctx := context.Background()
	var firstErr error
	for i := len(s.registrations) - 1; i >= 0; i-- {
		reg := s.registrations[i]
		_, span := startSpan(ctx, "shutdown."+reg.Name)
		err := reg.Service.SetTargetState(lifecycle.Stopped)
		span.End()
		if err != nil {
			logging.Error("initsvc", err, "stopping %s", reg.Name)
			if firstErr == nil {
				firstErr = fmt.Errorf("stop %s: %w", reg.Name, err)
			}
			continue
		}
		logging.Info("initsvc", "stopped %s", reg.Name)
	}

	setState(lifecycle.Stopped)
	return firstErr
}

// Service looks up a registered service by name. If expectRunning is
// true, it also fails unless the service's observed state is Running.
func (s *InitService) Service(name string, expectRunning bool) (lifecycle.Service, error) {
	svc, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, coreerr.ErrNotFound)
	}
	if expectRunning && svc.GetState() != lifecycle.Running {
		return nil, fmt.Errorf("%s: %w", name, coreerr.ErrInvalidState)
	}
	return svc, nil
}

// StartService requests Running for the named service. Concurrent calls
// for the same name are coalesced via singleflight so a duplicate request
// (e.g. from a REPL command racing a health-check retry) does not run the
// transition handler twice.
func (s *InitService) StartService(name string) error {
	_, err, _ := s.startGroup.Do("start:"+name, func() (any, error) {
		svc, err := s.Service(name, false)
		if err != nil {
			return nil, err
		}
		return nil, svc.SetTargetState(lifecycle.Running)
	})
	return err
}

// StopService requests Stopped for the named service, with the same
// singleflight coalescing as StartService.
func (s *InitService) StopService(name string) error {
	_, err, _ := s.startGroup.Do("stop:"+name, func() (any, error) {
		svc, err := s.Service(name, false)
		if err != nil {
			return nil, err
		}
		return nil, svc.SetTargetState(lifecycle.Stopped)
	})
	return err
}

// Registrations returns the registry in registration order, for status
// views and the REPL.
func (s *InitService) Registrations() []Registration {
	out := make([]Registration, len(s.registrations))
	copy(out, s.registrations)
	return out
}

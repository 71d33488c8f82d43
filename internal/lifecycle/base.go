package lifecycle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"reactor/internal/coreerr"
	"reactor/internal/offs"
	"reactor/internal/value"
	"reactor/pkg/logging"
)

const defaultDependencyWaitTimeout = 30 * time.Second

// ServiceBase combines an own-state store and an all-dependencies-available
// store into a single externally observed state, and carries the
// dependency wiring, transition handlers, and cleanup registry every
// concrete service needs.
type ServiceBase struct {
	typeName   string
	customName string

	ownState         *value.DedupObservable[ServiceState]
	allDepsAvailable *value.DedupObservable[bool]
	observed         *value.DerivedObservable[ServiceState]

	target  ServiceState
	configured bool
	configureFn func(cfg any) error

	deps     []Service
	depNames map[string]bool

	handlers map[ServiceState]TransitionHandler

	onStop offs.Registry

	resolver Resolver

	depWaitTimeout time.Duration

	events *value.Observable[any]
}

// NewBase constructs a ServiceBase for a service of the given type name.
// configureFn is invoked by Configure once the service is permitted to
// configure (i.e. while Stopped); it may be nil for services that need no
// configuration step.
func NewBase(typeName string, configureFn func(cfg any) error) *ServiceBase {
	b := &ServiceBase{
		typeName:       typeName,
		ownState:       value.NewDedupWithValue[ServiceState]("lifecycle."+typeName, Stopped),
		allDepsAvailable: value.NewDedupWithValue[bool]("lifecycle."+typeName, true),
		depNames:       make(map[string]bool),
		handlers:       make(map[ServiceState]TransitionHandler),
		depWaitTimeout: defaultDependencyWaitTimeout,
		configureFn:    configureFn,
		events:         value.New[any]("lifecycle." + typeName + ".events"),
	}

	b.observed = value.NewDerived[ServiceState]("lifecycle."+typeName+".observed", value.DerivedConfig[ServiceState]{
		Inputs: map[string]value.Input{
			"own":   value.AsInput[ServiceState](&b.ownState.Observable),
			"avail": value.AsInput[bool](&b.allDepsAvailable.Observable),
		},
		Derive: func(get func(string) any) ServiceState {
			own := get("own").(ServiceState)
			avail := get("avail").(bool)
			if own == Running && !avail {
				return Unavailable
			}
			return own
		},
	})
	value.WithGetters(b.observed, map[string]func() any{
		"own":   func() any { return b.ownState.MustGet() },
		"avail": func() any { return b.allDepsAvailable.MustGet() },
	})

	return b
}

// Name returns the service's reported name: the custom name set via
// SetServiceName if any, otherwise the type name.
func (b *ServiceBase) Name() string {
	if b.customName != "" {
		return b.customName
	}
	return b.typeName
}

// SetServiceName overrides the reported name.
func (b *ServiceBase) SetServiceName(name string) {
	b.customName = name
}

// SetResolver installs the name->Service resolver used by SetDependency
// when given a string. InitService calls this when registering a service.
func (b *ServiceBase) SetResolver(r Resolver) {
	b.resolver = r
}

// Configure is permitted only while the service's own state is Stopped.
func (b *ServiceBase) Configure(cfg any) error {
	if b.ownState.MustGet() != Stopped {
		return coreerr.ErrInvalidState
	}
	if b.configureFn != nil {
		if err := b.configureFn(cfg); err != nil {
			return err
		}
	}
	b.configured = true
	return nil
}

// SetDependency adds dep (a Service, or a string resolved through the
// installed Resolver) to the dependency set and subscribes to its
// observed state.
func (b *ServiceBase) SetDependency(dep any) error {
	var svc Service
	switch d := dep.(type) {
	case Service:
		svc = d
	case string:
		if b.resolver == nil {
			return coreerr.ErrNotConfigured
		}
		resolved, err := b.resolver.ResolveService(d)
		if err != nil {
			return err
		}
		svc = resolved
	default:
		return coreerr.ErrInvalidArgument
	}

	if b.depNames[svc.Name()] {
		return coreerr.ErrAlreadyRegistered
	}
	b.depNames[svc.Name()] = true
	b.deps = append(b.deps, svc)

	off := svc.SubscribeToState(func(ServiceState) {
		b.recomputeAvailability()
	}, true)
	b.onStop.Register(offs.NewSymbol(), off)

	return nil
}

func (b *ServiceBase) recomputeAvailability() {
	all := true
	for _, d := range b.deps {
		if d.GetState() != Running {
			all = false
			break
		}
	}
	b.allDepsAvailable.Set(all)
}

// GetState returns the merged, externally observed state.
func (b *ServiceBase) GetState() ServiceState {
	return b.observed.Get()
}

// SubscribeToState delivers the merged observed state on every change, and
// optionally once immediately on registration.
func (b *ServiceBase) SubscribeToState(cb func(ServiceState), callOnRegistration bool) value.Unsubscribe {
	return b.observed.Subscribe(func(s ServiceState, _ value.Unsubscribe) { cb(s) }, callOnRegistration)
}

// setState writes the service's own state (deduplicated). On transition to
// Stopped, the onStop registry is drained first, so dependants see their
// cleanup complete strictly before Stopped is observed.
func (b *ServiceBase) setState(s ServiceState) {
	if s == Stopped {
		b.onStop.UnsubscribeAll()
	}
	b.ownState.Set(s)
}

// SetTransitionHandler registers handler for target, replacing any prior
// handler for that target, and returns a thunk that removes whichever
// handler is registered for target at the time the thunk is called.
func (b *ServiceBase) SetTransitionHandler(target ServiceState, handler TransitionHandler) func() {
	b.handlers[target] = handler
	return func() {
		if b.handlers[target] != nil {
			delete(b.handlers, target)
		}
	}
}

// SetTargetState requests target. It is a no-op if the service's own
// state already equals target. If target is Running, dependency
// availability is awaited first. The registered handler for target is
// then invoked with setState bound to this service; a handler failure
// transitions the service to Error and is wrapped in
// *coreerr.TransitionFailedError.
func (b *ServiceBase) SetTargetState(target ServiceState) error {
	if target != Running && target != Stopped {
		return coreerr.ErrInvalidArgument
	}
	if b.ownState.MustGet() == target {
		return nil
	}
	b.target = target

	if target == Running {
		// Own state flips to Running before the dependency wait so that
		// the merged observed state (Running + not-all-available =
		// Unavailable) is visible to observers for the whole duration of
		// the wait, not just after it resolves.
		b.setState(Running)
		if err := b.waitForAllDependencies(); err != nil {
			return err
		}
	}

	handler, ok := b.handlers[target]
	if !ok {
		b.setState(target)
		return nil
	}

	if err := handler(b.setState); err != nil {
		b.setState(Error)
		return &coreerr.TransitionFailedError{From: b.Name(), To: target.String(), Cause: err}
	}
	return nil
}

// waitForAllDependencies blocks until every dependency is observed
// Running or the wait timeout elapses. Each dependency is awaited by its
// own goroutine, bounded by an errgroup sharing one deadline context: the
// first dependency to time out cancels the context, which in turn stops
// every other still-waiting goroutine rather than leaving them parked
// until their own individual deadlines.
func (b *ServiceBase) waitForAllDependencies() error {
	for _, d := range b.deps {
		if d.GetState() == Error {
			return &coreerr.DependencyError{
				Service: b.Name(),
				Missing: []string{d.Name()},
				Cause:   coreerr.ErrInvalidState,
			}
		}
	}

	if avail, _ := b.allDepsAvailable.Get(); avail {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.depWaitTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var missing []string

	for _, d := range b.deps {
		d := d
		g.Go(func() error {
			if d.GetState() == Running {
				return nil
			}

			done := make(chan struct{})
			off := d.SubscribeToState(func(s ServiceState) {
				if s == Running {
					select {
					case <-done:
					default:
						close(done)
					}
				}
			}, true)
			defer off()

			select {
			case <-done:
				return nil
			case <-gctx.Done():
				mu.Lock()
				missing = append(missing, d.Name())
				mu.Unlock()
				return coreerr.ErrTimeout
			}
		})
	}

	if err := g.Wait(); err != nil {
		logging.Warn("lifecycle", "%s: dependency wait timed out, not available: %v", b.Name(), missing)
		return &coreerr.DependencyError{Service: b.Name(), Missing: missing, Cause: coreerr.ErrTimeout}
	}
	return nil
}

// SetDependencyWaitTimeout overrides the default 30s dependency-wait
// timeout, mainly for tests that want a short bound.
func (b *ServiceBase) SetDependencyWaitTimeout(d time.Duration) {
	b.depWaitTimeout = d
}

// ExpectRunning fails with ErrInvalidState unless the observed state is
// Running.
func (b *ServiceBase) ExpectRunning() error { return b.expect(Running) }

// ExpectStopped fails with ErrInvalidState unless the observed state is
// Stopped.
func (b *ServiceBase) ExpectStopped() error { return b.expect(Stopped) }

// ExpectAvailable fails with ErrInvalidState if the observed state is
// Unavailable or Error.
func (b *ServiceBase) ExpectAvailable() error {
	s := b.GetState()
	if s == Unavailable || s == Error {
		return coreerr.ErrInvalidState
	}
	return nil
}

// ExpectConfigured fails with ErrNotConfigured unless Configure has
// succeeded.
func (b *ServiceBase) ExpectConfigured() error {
	if !b.configured {
		return coreerr.ErrNotConfigured
	}
	return nil
}

func (b *ServiceBase) expect(want ServiceState) error {
	if b.GetState() != want {
		return coreerr.ErrInvalidState
	}
	return nil
}

// Events exposes the service's event-emission observable.
func (b *ServiceBase) Events() *value.Observable[any] {
	return b.events
}

// EmitEvent publishes msg on the events observable, wrapping a bare string
// into a {message: ...} shaped map for uniformity with structured events.
func (b *ServiceBase) EmitEvent(msg any) {
	if s, ok := msg.(string); ok {
		b.events.Set(map[string]any{"message": s})
		return
	}
	b.events.Set(msg)
}

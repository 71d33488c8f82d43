package value

import "sort"

// Input is anything a DerivedObservable can subscribe to: an
// observable of some value type the derive function reads through
// Get(). DerivedObservable only needs to subscribe/unsubscribe/read
// it, never to own it.
type Input interface {
	// subscribeRaw registers a zero-argument recompute callback and
	// returns its unsubscribe thunk. callOnRegistration is always
	// false here: DerivedObservable computes its own initial value via
	// derive, it doesn't want the input's current value replayed to
	// it positionally.
	subscribeRaw(cb func()) Unsubscribe
}

// AsInput adapts an *Observable[V] (or *DedupObservable[V]) into an
// Input for use with NewDerived.
func AsInput[V any](o *Observable[V]) Input {
	return rawInput[V]{o}
}

type rawInput[V any] struct {
	o *Observable[V]
}

func (r rawInput[V]) subscribeRaw(cb func()) Unsubscribe {
	return r.o.Subscribe(func(V, Unsubscribe) { cb() }, false)
}

// DerivedObservable is a read-only observable whose value is a pure
// function of a fixed, ordered set of named inputs. It
// holds no default value of its own: Get() invokes derive live. It
// attaches to its inputs only while it itself has at least one
// subscriber.
type DerivedObservable[T any] struct {
	subsystem string

	inputNames []string
	inputs     map[string]Input
	derive     func(get func(name string) any) T

	inner       Observable[T]
	lastEmitted T
	hasEmitted  bool
	inputOffs   []Unsubscribe
	recomputing bool
	destroyed   bool
	getRaw      map[string]func() any
}

// DerivedConfig configures NewDerived. Inputs is an ordered mapping of
// name to Input; Derive reads input values back out through the get
// callback it is handed (get panics if asked for a name not present in
// Inputs).
type DerivedConfig[T any] struct {
	Inputs map[string]Input
	Derive func(get func(name string) any) T
}

// NewDerived constructs a DerivedObservable. Input iteration order for
// attach/detach is the sorted order of the input names, giving a
// deterministic order.
func NewDerived[T any](subsystem string, cfg DerivedConfig[T]) *DerivedObservable[T] {
	names := make([]string, 0, len(cfg.Inputs))
	for n := range cfg.Inputs {
		names = append(names, n)
	}
	sort.Strings(names)

	return &DerivedObservable[T]{
		subsystem:  subsystem,
		inputNames: names,
		inputs:     cfg.Inputs,
		derive:     cfg.Derive,
		inner:      *New[T](subsystem),
	}
}

// withGetters stores the per-input raw accessors that back a Derive
// function's get callback; register them via WithGetters so Derive can
// type-assert what get returns, or simply close over the
// source observables directly (the common case — Derive is a plain
// closure, get() is only needed when Inputs was built dynamically).
func (k *DerivedObservable[T]) withGetters(getters map[string]func() any) {
	k.getRaw = getters
}

// WithGetters attaches the per-input raw value accessors used by the
// get() callback passed to Derive. Call this immediately after
// NewDerived when Derive needs to read inputs by name rather than by
// closing over them directly.
func WithGetters[T any](d *DerivedObservable[T], getters map[string]func() any) *DerivedObservable[T] {
	d.withGetters(getters)
	return d
}

func (d *DerivedObservable[T]) getByName(name string) any {
	if d.getRaw == nil {
		panic("value: DerivedObservable.Derive called get() but no getters were registered via WithGetters")
	}
	fn, ok := d.getRaw[name]
	if !ok {
		panic("value: unknown derived input name " + name)
	}
	return fn()
}

// Get computes and returns the current derived value. It fails
// (returns the zero value) if the store has been destroyed; callers
// that need to distinguish should check Destroyed() first.
func (d *DerivedObservable[T]) Get() T {
	if d.destroyed {
		var zero T
		return zero
	}
	return d.derive(d.getByName)
}

func (d *DerivedObservable[T]) isObservableStore() {}

// Destroyed reports whether Destroy has been called.
func (d *DerivedObservable[T]) Destroyed() bool {
	return d.destroyed
}

// HasSubscribers returns the companion boolean observable.
func (d *DerivedObservable[T]) HasSubscribers() *Observable[bool] {
	return d.inner.HasSubscribers()
}

// SubscriberCount returns the number of live subscribers.
func (d *DerivedObservable[T]) SubscriberCount() int {
	return d.inner.SubscriberCount()
}

// Subscribe registers cb for change notifications. On the 0→1 edge of
// the subscriber count this attaches to every input (see
// invariant i) and performs one recompute, before cb itself is
// registered, so the cached last-emitted value reflects the current
// inputs without notifying cb twice. Whether that cached value is then
// replayed to cb is controlled by callOnRegistration, matching
// Observable.Subscribe's semantics exactly (delegated to
// d.inner.Subscribe below).
func (d *DerivedObservable[T]) Subscribe(cb Subscriber[T], callOnRegistration bool) Unsubscribe {
	if d.destroyed {
		return func() {}
	}

	wasEmpty := d.inner.SubscriberCount() == 0
	if wasEmpty {
		d.attach()
		d.recompute()
	}
	off := d.inner.Subscribe(cb, callOnRegistration)

	return func() {
		off()
		if d.inner.SubscriberCount() == 0 {
			d.detach()
		}
	}
}

func (d *DerivedObservable[T]) attach() {
	d.inputOffs = make([]Unsubscribe, 0, len(d.inputNames))
	for _, name := range d.inputNames {
		in := d.inputs[name]
		d.inputOffs = append(d.inputOffs, in.subscribeRaw(d.recompute))
	}
}

func (d *DerivedObservable[T]) detach() {
	for _, off := range d.inputOffs {
		off()
	}
	d.inputOffs = nil
}

func (d *DerivedObservable[T]) recompute() {
	if d.destroyed || d.recomputing {
		// Re-entrant recompute: a derived store that (against the
		// acyclic-graph assumption) ends up triggering
		// its own recompute drops the nested invocation.
		return
	}
	d.recomputing = true
	defer func() { d.recomputing = false }()

	next := d.derive(d.getByName)
	if d.hasEmitted && any(next) != nil && equalRef(d.lastEmitted, next) {
		return
	}
	d.lastEmitted = next
	d.hasEmitted = true
	d.inner.Set(next)
}

// equalRef approximates referential/value equality for the recompute
// dedup check ("not referentially equal
// to the last-emitted"). Go has no universal reference-equality
// operator for arbitrary T, so comparable kinds compare by value and
// everything else (slices, maps, funcs) is always treated as changed,
// which is the conservative, always-correct direction — at worst it
// re-emits a structurally identical composite value.
func equalRef[T any](a, b T) bool {
	defer func() { recover() }()
	return any(a) == any(b)
}

// Set always fails: DerivedObservable is read-only.
func (d *DerivedObservable[T]) Set(T) error {
	return ErrNotSupported
}

// Update always fails: DerivedObservable is read-only.
func (d *DerivedObservable[T]) Update(func(T) T) error {
	return ErrNotSupported
}

// Destroy unsubscribes all own subscribers, detaches from every
// input, and marks the store destroyed. Afterwards Get returns the zero
// value of T and Subscribe registers nothing and returns a no-op
// Unsubscribe; neither reports an error.
func (d *DerivedObservable[T]) Destroy() {
	if d.destroyed {
		return
	}
	d.inner.UnsubscribeAll()
	d.detach()
	d.destroyed = true
}

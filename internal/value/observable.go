package value

import (
	"fmt"

	"reactor/pkg/logging"
)

// Unsubscribe removes a previously registered subscriber. Calling it
// more than once is a no-op.
type Unsubscribe func()

// Subscriber is called with the latest value of an Observable. The
// unsubscribe thunk is passed alongside the value so a subscriber can
// detach itself from inside its own callback.
type Subscriber[T any] func(value T, unsubscribe Unsubscribe)

// observableMarker lets ValueStoreMap.Set detect, at runtime, that the
// value it was handed is itself an observable store rather than a
// plain value ("fails if v is itself an
// Observable").
type observableMarker interface {
	isObservableStore()
}

func (o *Observable[T]) isObservableStore() {}

// Observable holds an optional current value of type T and an
// unordered (insertion-ordered for notification purposes) set of
// subscriber callbacks.
//
// The zero value is not usable; construct with New.
type Observable[T any] struct {
	subsystem string

	value   T
	hasVal  bool
	subs    []*subscription[T]
	nextID  uint64
	hasSubs *Observable[bool]
}

type subscription[T any] struct {
	id      uint64
	cb      Subscriber[T]
	removed bool
}

// New creates an empty Observable[T] with no current value.
// subsystem is used only for logging a recovered subscriber panic; it
// need not be unique.
func New[T any](subsystem string) *Observable[T] {
	return &Observable[T]{subsystem: subsystem}
}

// NewWithValue creates an Observable[T] already holding v.
func NewWithValue[T any](subsystem string, v T) *Observable[T] {
	o := New[T](subsystem)
	o.value = v
	o.hasVal = true
	return o
}

// HasSubscribers returns the companion observable that is true
// exactly while this Observable has at least one subscriber
// . It is created lazily and shared across
// calls.
func (o *Observable[T]) HasSubscribers() *Observable[bool] {
	if o.hasSubs == nil {
		o.hasSubs = NewWithValue[bool]("hasSubscribers", false)
	}
	return o.hasSubs
}

// Get returns the current value and whether one has ever been set.
// Get never affects HasSubscribers.
func (o *Observable[T]) Get() (T, bool) {
	return o.value, o.hasVal
}

// MustGet returns the current value, or the zero value of T if unset.
func (o *Observable[T]) MustGet() T {
	return o.value
}

// Set stores v and notifies every current subscriber with v, in
// registration order. Subscription-edge bookkeeping
// (HasSubscribers) is updated only by Subscribe/unsubscribe, never by
// Set.
func (o *Observable[T]) Set(v T) {
	o.value = v
	o.hasVal = true
	o.notify(v)
}

// Update is equivalent to Set(fn(Get())).
func (o *Observable[T]) Update(fn func(T) T) {
	o.Set(fn(o.value))
}

func (o *Observable[T]) notify(v T) {
	// Snapshot so a subscriber that unsubscribes mid-pass doesn't
	// mutate the slice we're ranging over, and so later subscribers
	// in this pass still see the notification.
	snapshot := make([]*subscription[T], len(o.subs))
	copy(snapshot, o.subs)

	for _, sub := range snapshot {
		if sub.removed {
			continue
		}
		o.invoke(sub, v)
	}
}

func (o *Observable[T]) invoke(sub *subscription[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error(o.subsystem, fmt.Errorf("%v", r), "subscriber panicked")
		}
	}()
	sub.cb(v, o.unsubscribeFunc(sub))
}

// Subscribe registers cb. Every call adds a new subscription: Go
// function values are not comparable, so Subscribe does not detect a
// callback that is already registered and never returns
// ErrInvalidState; registering the same callback twice means it is
// notified twice per Set.
//
// If callOnRegistration is true and a current value is defined,
// cb is invoked synchronously, inside Subscribe, before it returns.
func (o *Observable[T]) Subscribe(cb Subscriber[T], callOnRegistration bool) Unsubscribe {
	o.nextID++
	sub := &subscription[T]{id: o.nextID, cb: cb}
	wasEmpty := len(o.subs) == 0
	o.subs = append(o.subs, sub)
	if wasEmpty {
		o.HasSubscribers().Set(true)
	}

	off := o.unsubscribeFunc(sub)
	if callOnRegistration && o.hasVal {
		o.invoke(sub, o.value)
	}
	return off
}

func (o *Observable[T]) unsubscribeFunc(sub *subscription[T]) Unsubscribe {
	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		for i, s := range o.subs {
			if s == sub {
				o.subs = append(o.subs[:i], o.subs[i+1:]...)
				break
			}
		}
		if len(o.subs) == 0 && o.hasSubs != nil {
			o.hasSubs.Set(false)
		}
	}
}

// UnsubscribeAll invokes every registered unsubscribe and clears the
// subscriber set.
func (o *Observable[T]) UnsubscribeAll() {
	for _, sub := range append([]*subscription[T]{}, o.subs...) {
		if !sub.removed {
			sub.removed = true
		}
	}
	o.subs = nil
	if o.hasSubs != nil {
		o.hasSubs.Set(false)
	}
}

// SubscriberCount returns the number of live subscribers. Exposed for
// tests and for DerivedObservable's edge detection.
func (o *Observable[T]) SubscriberCount() int {
	return len(o.subs)
}

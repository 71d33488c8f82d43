package offs

import (
	"time"

	"github.com/google/uuid"
)

// Label identifies an entry in a Registry. It is either a caller-chosen
// string or an opaque symbol minted by NewSymbol; the two never collide.
type Label struct {
	name   string
	symbol bool
}

// NewLabel wraps a caller-chosen string as a Label.
func NewLabel(name string) Label { return Label{name: name} }

// NewSymbol mints a fresh, opaque Label guaranteed not to collide with any
// string label or any other symbol.
func NewSymbol() Label { return Label{name: uuid.NewString(), symbol: true} }

func (l Label) String() string {
	if l.symbol {
		return "sym:" + l.name
	}
	return l.name
}

type entry struct {
	label   Label
	cleanup func()
	timer   *time.Timer
}

// Registry collects cleanup thunks under a Label and invokes them on
// demand or in bulk, in registration order. A zero Registry is ready to
// use.
type Registry struct {
	entries []*entry
	byLabel map[Label]*entry
}

func (r *Registry) ensure() {
	if r.byLabel == nil {
		r.byLabel = make(map[Label]*entry)
	}
}

// Register records cleanup under label. It fails with ErrAlreadyRegistered
// if label is already occupied.
func (r *Registry) Register(label Label, cleanup func()) error {
	r.ensure()
	if _, exists := r.byLabel[label]; exists {
		return ErrAlreadyRegistered
	}
	e := &entry{label: label, cleanup: cleanup}
	r.byLabel[label] = e
	r.entries = append(r.entries, e)
	return nil
}

// RegisterAnonymous records cleanup under a freshly minted symbol and
// returns that symbol's Label so the caller can unregister it later.
func (r *Registry) RegisterAnonymous(cleanup func()) Label {
	label := NewSymbol()
	_ = r.Register(label, cleanup)
	return label
}

// ExecuteDelayed schedules cb to run after delay and registers the timer's
// Stop as the label's cleanup. The returned thunk both cancels the timer
// (if it has not already fired) and deregisters the label; calling it is
// equivalent to TryUnregister(label), whose registered cleanup is the
// timer's Stop.
// Fails with ErrAlreadyRegistered if label is already occupied.
func (r *Registry) ExecuteDelayed(label Label, delay time.Duration, cb func()) (func(), error) {
	r.ensure()
	if _, exists := r.byLabel[label]; exists {
		return nil, ErrAlreadyRegistered
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		r.TryUnregister(label)
		cb()
	})

	e := &entry{label: label, timer: t, cleanup: func() { t.Stop() }}
	r.byLabel[label] = e
	r.entries = append(r.entries, e)

	return func() { r.TryUnregister(label) }, nil
}

// TryUnregister invokes and removes the entry under label if present; it
// is a silent no-op if label is absent.
func (r *Registry) TryUnregister(label Label) {
	r.ensure()
	e, exists := r.byLabel[label]
	if !exists {
		return
	}
	delete(r.byLabel, label)
	for i, candidate := range r.entries {
		if candidate == e {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	if e.cleanup != nil {
		e.cleanup()
	}
}

// UnsubscribeAll invokes every registered cleanup in registration order and
// clears the registry.
func (r *Registry) UnsubscribeAll() {
	entries := r.entries
	r.entries = nil
	r.byLabel = nil
	for _, e := range entries {
		if e.cleanup != nil {
			e.cleanup()
		}
	}
}

// Len reports how many entries are currently registered.
func (r *Registry) Len() int {
	return len(r.entries)
}

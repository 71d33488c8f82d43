package value

// ValueStoreMap is a keyed collection of Observable[V], auto-creating an
// entry (optionally seeded with a default) on first read. Modelled on a
// keyed-registry pattern, generalized from a fixed Service interface to
// any V.
type ValueStoreMap[K comparable, V any] struct {
	subsystem string
	stores    map[K]*Observable[V]
}

// NewMap creates an empty ValueStoreMap[K,V].
func NewMap[K comparable, V any](subsystem string) *ValueStoreMap[K, V] {
	return &ValueStoreMap[K, V]{
		subsystem: subsystem,
		stores:    make(map[K]*Observable[V]),
	}
}

func (m *ValueStoreMap[K, V]) ensure(k K) *Observable[V] {
	s, ok := m.stores[k]
	if !ok {
		s = New[V](m.subsystem)
		m.stores[k] = s
	}
	return s
}

// Get returns the value stored under k, creating the per-key
// observable (seeded with def) if it does not yet exist.
func (m *ValueStoreMap[K, V]) Get(k K, def V) V {
	s, ok := m.stores[k]
	if !ok {
		s = NewWithValue[V](m.subsystem, def)
		m.stores[k] = s
		return def
	}
	v, has := s.Get()
	if !has {
		return def
	}
	return v
}

// Observable returns (creating if absent) the per-key Observable[V]
// itself, for callers that want to Subscribe directly.
func (m *ValueStoreMap[K, V]) Observable(k K) *Observable[V] {
	return m.ensure(k)
}

// Set stores v under k, creating the per-key observable if absent.
// It fails with ErrInvalidArgument if v is itself an observable store
// .
func (m *ValueStoreMap[K, V]) Set(k K, v V) error {
	if _, isStore := any(v).(observableMarker); isStore {
		return ErrInvalidArgument
	}
	m.ensure(k).Set(v)
	return nil
}

// Subscribe subscribes to the per-key observable, creating it if
// absent.
func (m *ValueStoreMap[K, V]) Subscribe(k K, cb Subscriber[V], callOnRegistration bool) Unsubscribe {
	return m.ensure(k).Subscribe(cb, callOnRegistration)
}

// Delete unsubscribes every listener of the per-key observable, then
// removes the entry. Deleting an absent key is a no-op.
func (m *ValueStoreMap[K, V]) Delete(k K) {
	s, ok := m.stores[k]
	if !ok {
		return
	}
	s.UnsubscribeAll()
	delete(m.stores, k)
}

// Keys returns the set of keys currently present, in no particular
// order.
func (m *ValueStoreMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.stores))
	for k := range m.stores {
		keys = append(keys, k)
	}
	return keys
}

// SetObject assigns every entry of o through Set. This mirrors the
// setObject(o) bulk-assignment convenience.
func (m *ValueStoreMap[K, V]) SetObject(o map[K]V) error {
	for k, v := range o {
		if err := m.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

package value

import "testing"

func TestValueStoreMapAutoCreateOnRead(t *testing.T) {
	m := NewMap[string, int]("test")
	if got := m.Get("missing", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
	if len(m.Keys()) != 1 {
		t.Fatalf("expected auto-created entry to persist, keys=%v", m.Keys())
	}
}

func TestValueStoreMapSetAndSubscribe(t *testing.T) {
	m := NewMap[string, int]("test")

	var got int
	m.Subscribe("x", func(v int, _ Unsubscribe) { got = v }, true)
	if err := m.Set("x", 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected subscriber to see 42, got %d", got)
	}
}

func TestValueStoreMapSetRejectsObservable(t *testing.T) {
	m := NewMap[string, any]("test")
	inner := New[int]("inner")
	if err := m.Set("x", inner); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument when storing an Observable, got %v", err)
	}
}

func TestValueStoreMapDeleteUnsubscribesListeners(t *testing.T) {
	m := NewMap[string, int]("test")
	called := false
	m.Subscribe("x", func(int, Unsubscribe) { called = true }, false)

	m.Delete("x")
	m.Set("x", 1) // recreates the key; the old subscriber must be gone

	if called {
		t.Fatalf("expected deleted entry's subscriber to be detached")
	}
}

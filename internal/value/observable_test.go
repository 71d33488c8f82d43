package value

import (
	"testing"
)

func TestObservableSetNotifiesInRegistrationOrder(t *testing.T) {
	o := New[int]("test")
	var order []int

	o.Subscribe(func(v int, _ Unsubscribe) { order = append(order, 1) }, false)
	o.Subscribe(func(v int, _ Unsubscribe) { order = append(order, 2) }, false)
	o.Subscribe(func(v int, _ Unsubscribe) { order = append(order, 3) }, false)

	o.Set(42)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected notification order [1 2 3], got %v", order)
	}
}

func TestObservableHasSubscribersEdges(t *testing.T) {
	o := New[int]("test")
	hs := o.HasSubscribers()

	if v, _ := hs.Get(); v {
		t.Fatalf("expected hasSubscribers false before any subscriber")
	}

	off1 := o.Subscribe(func(int, Unsubscribe) {}, false)
	if v, _ := hs.Get(); !v {
		t.Fatalf("expected hasSubscribers true after first subscribe")
	}

	off2 := o.Subscribe(func(int, Unsubscribe) {}, false)
	off1()
	if v, _ := hs.Get(); !v {
		t.Fatalf("expected hasSubscribers still true with one subscriber left")
	}

	off2()
	if v, _ := hs.Get(); v {
		t.Fatalf("expected hasSubscribers false after last unsubscribe")
	}
}

func TestObservableCallOnRegistration(t *testing.T) {
	o := NewWithValue[string]("test", "hello")

	var got string
	o.Subscribe(func(v string, _ Unsubscribe) { got = v }, true)
	if got != "hello" {
		t.Fatalf("expected immediate callback with current value, got %q", got)
	}

	o2 := New[string]("test")
	called := false
	o2.Subscribe(func(string, Unsubscribe) { called = true }, true)
	if called {
		t.Fatalf("expected no immediate callback when no value is defined yet")
	}
}

func TestObservableUnsubscribeDuringNotificationDoesNotSkipLaterSubscribers(t *testing.T) {
	o := New[int]("test")
	var calledB, calledC bool

	var offA Unsubscribe
	offA = o.Subscribe(func(int, Unsubscribe) {
		offA()
	}, false)
	o.Subscribe(func(int, Unsubscribe) { calledB = true }, false)
	o.Subscribe(func(int, Unsubscribe) { calledC = true }, false)

	o.Set(1)

	if !calledB || !calledC {
		t.Fatalf("expected later subscribers to still be notified, got B=%v C=%v", calledB, calledC)
	}
	if o.SubscriberCount() != 2 {
		t.Fatalf("expected self-unsubscribed subscriber to be removed, count=%d", o.SubscriberCount())
	}
}

func TestObservableReentrantSetNestsNotifications(t *testing.T) {
	o := New[int]("test")
	var seen []int

	o.Subscribe(func(v int, _ Unsubscribe) {
		seen = append(seen, v)
		if v == 1 {
			o.Set(2)
		}
	}, false)

	o.Set(1)

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("expected nested notification to complete before outer loop continues, got %v", seen)
	}
}

func TestObservableSubscriberPanicDoesNotAbortOtherSubscribers(t *testing.T) {
	o := New[int]("test")
	called := false

	o.Subscribe(func(int, Unsubscribe) { panic("boom") }, false)
	o.Subscribe(func(int, Unsubscribe) { called = true }, false)

	o.Set(1)

	if !called {
		t.Fatalf("expected second subscriber to still be called after first panicked")
	}
}

func TestObservableGetDoesNotAffectHasSubscribers(t *testing.T) {
	o := NewWithValue[int]("test", 5)
	hs := o.HasSubscribers()
	_, _ = o.Get()
	if v, _ := hs.Get(); v {
		t.Fatalf("Get must never set hasSubscribers")
	}
}

package value

import "testing"

// TestDedupScenario covers subscribe-with-callOnRegistration, a no-op
// equal Set, and a notifying unequal Set.
func TestDedupScenario(t *testing.T) {
	d := NewDedupWithValue[map[string]any]("test", map[string]any{"a": 1})

	calls := 0
	var last map[string]any
	d.Subscribe(func(v map[string]any, _ Unsubscribe) {
		calls++
		last = v
	}, true)

	if calls != 1 {
		t.Fatalf("expected 1 call on registration, got %d", calls)
	}
	if last["a"] != 1 {
		t.Fatalf("expected initial value {a:1}, got %v", last)
	}

	d.Set(map[string]any{"a": 1})
	if calls != 1 {
		t.Fatalf("expected no additional call for structurally-equal set, got %d calls", calls)
	}

	d.Set(map[string]any{"a": 2})
	if calls != 2 {
		t.Fatalf("expected exactly one additional call, got %d calls", calls)
	}
	if last["a"] != 2 {
		t.Fatalf("expected updated value {a:2}, got %v", last)
	}
}

func TestDedupNestedStructures(t *testing.T) {
	d := NewDedup[map[string]any]("test")
	d.Set(map[string]any{
		"list": []any{1, 2, 3},
		"meta": map[string]any{"x": "y"},
	})

	calls := 0
	d.Subscribe(func(map[string]any, Unsubscribe) { calls++ }, false)

	d.Set(map[string]any{
		"list": []any{1, 2, 3},
		"meta": map[string]any{"x": "y"},
	})
	if calls != 0 {
		t.Fatalf("expected deep-equal nested structure to be a no-op, got %d calls", calls)
	}

	d.Set(map[string]any{
		"list": []any{1, 2, 4},
		"meta": map[string]any{"x": "y"},
	})
	if calls != 1 {
		t.Fatalf("expected change in nested slice to notify, got %d calls", calls)
	}
}

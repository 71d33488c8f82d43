package coreerr

import (
	"errors"
	"strings"
	"testing"
)

func TestTransitionFailedErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &TransitionFailedError{From: "a", To: "b", Cause: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestTransitionFailedErrorMessageIncludesCancelErr(t *testing.T) {
	err := &TransitionFailedError{
		From:      "a",
		To:        "b",
		Cause:     errors.New("step failed"),
		CancelErr: errors.New("cancel also failed"),
	}

	msg := err.Error()
	if !strings.Contains(msg, "step failed") || !strings.Contains(msg, "cancel also failed") {
		t.Fatalf("expected message to mention both errors, got %q", msg)
	}
}

func TestDependencyErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("timed out")
	err := &DependencyError{Service: "worker", Cause: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestDependencyErrorMessageListsMissing(t *testing.T) {
	err := &DependencyError{Service: "worker", Missing: []string{"database", "cache"}}
	msg := err.Error()
	if !strings.Contains(msg, "database") || !strings.Contains(msg, "cache") {
		t.Fatalf("expected message to list missing dependencies, got %q", msg)
	}
}

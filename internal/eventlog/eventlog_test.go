package eventlog

import (
	"bytes"
	"strings"
	"testing"

	"reactor/internal/lifecycle"
)

func TestRecorderRendersStringEvent(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(&buf, DefaultFormat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	svc := lifecycle.NewBase("db", nil)
	off := r.Attach("db", svc)
	defer off()

	svc.EmitEvent("connected")

	out := buf.String()
	if !strings.Contains(out, "[db]") || !strings.Contains(out, "connected") {
		t.Fatalf("expected rendered event to contain service name and message, got %q", out)
	}
}

func TestRecorderRendersStructuredEventFields(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(&buf, DefaultFormat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	svc := lifecycle.NewBase("worker", nil)
	off := r.Attach("worker", svc)
	defer off()

	svc.EmitEvent(map[string]any{"message": "job picked up", "jobID": "42"})

	out := buf.String()
	if !strings.Contains(out, "job picked up") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "jobID") {
		t.Fatalf("expected extra fields in output, got %q", out)
	}
}

func TestInvalidTemplateFails(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(&buf, "{{.Unterminated"); err == nil {
		t.Fatal("expected parse error for malformed template")
	}
}

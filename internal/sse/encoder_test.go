package sse

import (
	"testing"
)

func TestEncoder_Format_DefaultKind(t *testing.T) {
	enc := NewEncoder()

	result, err := enc.Format(Frame{Data: `{"message":"hello"}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "data: {\"message\":\"hello\"}\n\n"
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestEncoder_Format_MessageKindOmitsEventLine(t *testing.T) {
	enc := NewEncoder()

	result, err := enc.Format(Frame{Kind: "message", Data: `{}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "data: {}\n\n"
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestEncoder_Format_ExplicitKind(t *testing.T) {
	enc := NewEncoder()

	result, err := enc.Format(Frame{Kind: "sensor", Data: `{"temperature": 21.5, "humidity": 40.0}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "event: sensor\ndata: {\"temperature\": 21.5, \"humidity\": 40.0}\n\n"
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestEncoder_Format_RejectsKindWithNewline(t *testing.T) {
	enc := NewEncoder()

	if _, err := enc.Format(Frame{Kind: "bad\nkind", Data: "{}"}); err != ErrInvalidKind {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
}

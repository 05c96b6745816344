package record

import (
	"testing"
)

func TestColumns_Order(t *testing.T) {
	want := []string{"date", "host", "process", "pid", "logTime", "level", "message", "file", "component", "subcomponent"}
	got := Columns()
	if len(got) != len(want) {
		t.Fatalf("Columns() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Columns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(got) != NumColumns {
		t.Errorf("NumColumns = %d, want %d", NumColumns, len(got))
	}
}

func TestValues_FromValues(t *testing.T) {
	r := LogRecord{
		Date:         "Jun 14 15:16:01",
		Host:         "node1",
		Process:      "portworx",
		PID:          "1234",
		LogTime:      "2023-06-14T15:16:01Z",
		Level:        "info",
		Message:      "volume attached",
		File:         "volume.go:42",
		Component:    "porx/storage",
		Subcomponent: "pkg=volume",
	}

	got, ok := FromValues(r.Values())
	if !ok {
		t.Fatal("FromValues() returned false")
	}
	if got != r {
		t.Errorf("FromValues(Values()) = %+v, want %+v", got, r)
	}
}

func TestFromValues_WrongLength(t *testing.T) {
	if _, ok := FromValues([]string{"a", "b"}); ok {
		t.Error("FromValues() expected false for short input")
	}
}

func TestHasSubcomponent(t *testing.T) {
	if (LogRecord{}).HasSubcomponent() {
		t.Error("HasSubcomponent() = true for empty record")
	}
	if !(LogRecord{Subcomponent: "pkg=driver"}).HasSubcomponent() {
		t.Error("HasSubcomponent() = false for record with subcomponent")
	}
}

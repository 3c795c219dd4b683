package mwalib

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorRendersSingleLine(t *testing.T) {
	err := NewFitsIoError("obs.fits", "GPSTIME", errors.New("boom"))
	msg := err.Error()
	if strings.Count(msg, "\n") != 0 {
		t.Errorf("Error() contains a newline: %q", msg)
	}
	if !strings.Contains(msg, "obs.fits") || !strings.Contains(msg, "boom") {
		t.Errorf("Error() = %q, missing expected detail", msg)
	}
}

func TestErrorUnwrap(t *testing.T) {
	wrapped := errors.New("underlying")
	err := NewFitsIoError("obs.fits", "GPSTIME", wrapped)
	if !errors.Is(err, wrapped) {
		t.Error("errors.Is did not find the wrapped error")
	}
}

func TestWriteToTruncatesAndNulTerminates(t *testing.T) {
	err := NewMetafitsMissingKey("GPSTIME")
	buf := make([]byte, 8)
	n := err.WriteTo(buf)
	if n != 8 {
		t.Fatalf("WriteTo() = %d, want 8 (filled buffer)", n)
	}
	if buf[7] != 0 {
		t.Errorf("last byte = %d, want NUL terminator", buf[7])
	}
}

func TestWriteToEmptyBuffer(t *testing.T) {
	err := NewMetafitsMissingKey("GPSTIME")
	if n := err.WriteTo(nil); n != 0 {
		t.Errorf("WriteTo(nil) = %d, want 0", n)
	}
}

func TestAsNarrowsGenericError(t *testing.T) {
	var generic error = NewIndexOutOfRange("timestep_index", 5, 3)
	narrowed, ok := As(generic)
	if !ok {
		t.Fatal("As() ok = false, want true")
	}
	if narrowed.Kind != KindIndexOutOfRange {
		t.Errorf("narrowed.Kind = %v, want KindIndexOutOfRange", narrowed.Kind)
	}
}

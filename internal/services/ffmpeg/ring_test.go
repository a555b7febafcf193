package ffmpeg

import (
	"strings"
	"testing"
)

func TestRingBufferUnderCapacity(t *testing.T) {
	rb := newRingBuffer(16)
	if _, err := rb.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := rb.String(); got != "hello" {
		t.Errorf("String() = %q, want %q", got, "hello")
	}
}

func TestRingBufferRetainsMostRecentBytes(t *testing.T) {
	rb := newRingBuffer(8)
	for _, chunk := range []string{"abcd", "efgh", "ijkl"} {
		if _, err := rb.Write([]byte(chunk)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if got := rb.String(); got != "efghijkl" {
		t.Errorf("String() = %q, want %q", got, "efghijkl")
	}
}

func TestRingBufferSingleOversizedWrite(t *testing.T) {
	rb := newRingBuffer(4)
	input := "0123456789"
	if n, err := rb.Write([]byte(input)); err != nil || n != len(input) {
		t.Fatalf("write = %d, %v", n, err)
	}
	if got := rb.String(); got != "6789" {
		t.Errorf("String() = %q, want %q", got, "6789")
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := newRingBuffer(4)
	if got := rb.String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}

func TestRingBufferManySmallWrites(t *testing.T) {
	rb := newRingBuffer(10)
	var full strings.Builder
	for i := 0; i < 100; i++ {
		chunk := string(rune('a' + i%26))
		full.WriteString(chunk)
		if _, err := rb.Write([]byte(chunk)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	want := full.String()[full.Len()-10:]
	if got := rb.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

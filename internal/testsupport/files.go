package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates the target path (and parent directories) with the given
// contents.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// CaptionTrack is a minimal two-cue WebVTT document whose first cue starts
// at zero. The text lines up with the EPUB fixture from WriteEPUB defaults.
const CaptionTrack = `WEBVTT

00:00:00.000 --> 00:00:05.000
Chapter one begins the story

00:00:08.000 --> 00:00:12.000
of a distant kingdom and its people
`

package chapters

import (
	"strings"
	"testing"

	"chapterize/internal/match"
)

func strptr(s string) *string { return &s }

func TestToApplyPrefersManualTimestamp(t *testing.T) {
	matches := []ChapterMatch{
		{Title: "One", Confidence: match.High, DetectedTimestamp: strptr("00:00:00")},
		{Title: "Two", Confidence: match.Low, DetectedTimestamp: strptr("00:10:00"), ManualTimestamp: strptr("00:11:30")},
		{Title: "Three", Confidence: match.NotFound},
		{Title: "Four", Confidence: match.Manual, ManualTimestamp: strptr("00:45:00")},
	}

	got := ToApply(matches)
	want := []ChapterToApply{
		{Title: "One", Timestamp: "00:00:00"},
		{Title: "Two", Timestamp: "00:11:30"},
		{Title: "Four", Timestamp: "00:45:00"},
	}
	if len(got) != len(want) {
		t.Fatalf("ToApply returned %d chapters, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chapter %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPreviewTruncation(t *testing.T) {
	short := "A brief opening"
	if preview(short) != short {
		t.Errorf("short preview modified: %q", preview(short))
	}

	long := strings.Repeat("word ", 20)
	got := preview(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long preview missing ellipsis: %q", got)
	}
	if len([]rune(got)) != previewLength+3 {
		t.Errorf("long preview length = %d runes", len([]rune(got)))
	}
}

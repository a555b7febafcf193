package ffmeta

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestRenderChainsChapterBoundaries(t *testing.T) {
	chapters := []Chapter{
		{Title: "Intro", Timestamp: "00:00:00"},
		{Title: "Body", Timestamp: "00:05:30"},
		{Title: "Ending", Timestamp: "01:10:00"},
	}

	doc, err := Render(chapters)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.HasPrefix(doc, ";FFMETADATA1\n") {
		t.Errorf("missing header: %q", doc[:min(len(doc), 20)])
	}

	starts := extractFields(t, doc, "START")
	ends := extractFields(t, doc, "END")
	if len(starts) != 3 || len(ends) != 3 {
		t.Fatalf("expected 3 stanzas, got %d starts / %d ends", len(starts), len(ends))
	}

	wantStarts := []int64{0, 330_000, 4_200_000}
	for i, want := range wantStarts {
		if starts[i] != want {
			t.Errorf("stanza %d START = %d, want %d", i, starts[i], want)
		}
	}
	// END of stanza i equals START of stanza i+1.
	for i := 0; i < len(starts)-1; i++ {
		if ends[i] != starts[i+1] {
			t.Errorf("stanza %d END = %d, want next START %d", i, ends[i], starts[i+1])
		}
	}
	// Final stanza is padded by one hour.
	if ends[2] != starts[2]+3_600_000 {
		t.Errorf("final END = %d, want START+3600000 = %d", ends[2], starts[2]+3_600_000)
	}

	if strings.Count(doc, "TIMEBASE=1/1000") != 3 {
		t.Error("every stanza must declare TIMEBASE=1/1000")
	}
}

func TestRenderSanitizesTitles(t *testing.T) {
	doc, err := Render([]Chapter{{Title: "A=B;C#D\nE", Timestamp: "00:00:00"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	titleLine := ""
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "title=") {
			titleLine = line
		}
	}
	if titleLine != "title=A B C D E" {
		t.Errorf("title line = %q", titleLine)
	}
}

func TestRenderRejectsEmptyInput(t *testing.T) {
	if _, err := Render(nil); err == nil {
		t.Error("expected error for empty chapter list")
	}
}

func TestRenderRejectsBadTimestamp(t *testing.T) {
	_, err := Render([]Chapter{{Title: "X", Timestamp: "5:30"}})
	if err == nil {
		t.Error("expected error for malformed timestamp")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"00:00:00", 0, false},
		{"00:05:30", 330_000, false},
		{"01:10:00", 4_200_000, false},
		{"10:00:99", 0, true},
		{"00:75:00", 0, true},
		{"00:00", 0, true},
		{"", 0, true},
		{"aa:bb:cc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

var fieldPattern = regexp.MustCompile(`^(START|END)=(\d+)$`)

func extractFields(t *testing.T, doc, field string) []int64 {
	t.Helper()
	var values []int64
	for _, line := range strings.Split(doc, "\n") {
		m := fieldPattern.FindStringSubmatch(line)
		if m == nil || m[1] != field {
			continue
		}
		v, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			t.Fatalf("parse %s value %q: %v", field, m[2], err)
		}
		values = append(values, v)
	}
	return values
}

func TestRenderManyChapters(t *testing.T) {
	var chapters []Chapter
	for i := 0; i < 10; i++ {
		chapters = append(chapters, Chapter{
			Title:     fmt.Sprintf("Chapter %d", i+1),
			Timestamp: fmt.Sprintf("00:%02d:00", i*5),
		})
	}
	doc, err := Render(chapters)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := strings.Count(doc, "[CHAPTER]"); got != 10 {
		t.Errorf("stanza count = %d, want 10", got)
	}
}

package captions

import (
	"math"
	"strings"
	"testing"
)

const sampleTrack = `WEBVTT
Kind: captions
Language: en

1
00:00:00.000 --> 00:00:07.500
Chapter one begins the story

2
00:00:08.000 --> 00:00:15.250
of a distant kingdom
and its people
`

func TestParse(t *testing.T) {
	cues := Parse(sampleTrack)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}

	if cues[0].Start != 0 || cues[0].End != 7.5 {
		t.Errorf("cue 0 times = %v/%v, want 0/7.5", cues[0].Start, cues[0].End)
	}
	if cues[0].Text != "Chapter one begins the story" {
		t.Errorf("cue 0 text = %q", cues[0].Text)
	}

	if cues[1].Start != 8 {
		t.Errorf("cue 1 start = %v, want 8", cues[1].Start)
	}
	if cues[1].Text != "of a distant kingdom and its people" {
		t.Errorf("cue 1 multi-line text not joined: %q", cues[1].Text)
	}
}

func TestParseShortTimestampFormat(t *testing.T) {
	cues := Parse("WEBVTT\n\n01:30.500 --> 01:35.000\nhello world\n")
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Start != 90.5 {
		t.Errorf("start = %v, want 90.5", cues[0].Start)
	}
}

func TestParseSkipsMalformedTimestamps(t *testing.T) {
	track := "WEBVTT\n\nnot:a:time --> 00:00:05.000\nskipped text\n\n00:00:06.000 --> 00:00:09.000\nkept text\n"
	cues := Parse(track)
	if len(cues) != 1 {
		t.Fatalf("expected malformed cue to be dropped, got %d cues", len(cues))
	}
	if cues[0].Text != "kept text" {
		t.Errorf("surviving cue = %q", cues[0].Text)
	}
}

func TestParseSkipsTimingLinesWithoutText(t *testing.T) {
	track := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n\n00:00:03.000 --> 00:00:04.000\nreal cue\n"
	cues := Parse(track)
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Start != 3 {
		t.Errorf("start = %v, want 3", cues[0].Start)
	}
}

func TestParsePreservesFileOrder(t *testing.T) {
	track := "WEBVTT\n\n00:01:00.000 --> 00:01:05.000\nlater\n\n00:00:10.000 --> 00:00:15.000\nearlier\n"
	cues := Parse(track)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "later" || cues[1].Text != "earlier" {
		t.Errorf("cues re-sorted: %q, %q", cues[0].Text, cues[1].Text)
	}
}

func TestParseIgnoresCueSettings(t *testing.T) {
	cues := Parse("WEBVTT\n\n00:00:01.000 --> 00:00:02.000 position:10% align:start\ntext\n")
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].End != 2 {
		t.Errorf("end = %v, want 2", cues[0].End)
	}
}

func TestParseEmpty(t *testing.T) {
	if cues := Parse(""); len(cues) != 0 {
		t.Errorf("expected no cues, got %d", len(cues))
	}
	if cues := Parse("WEBVTT\n"); len(cues) != 0 {
		t.Errorf("expected no cues from header-only track, got %d", len(cues))
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"00:00:00.000", 0, false},
		{"01:02:03.500", 3723.5, false},
		{"02:03.250", 123.25, false},
		{"00:00:05,500", 5.5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1:2:3:4", 0, true},
		{"-1:00:00.000", 0, true},
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
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTimestampTruncates(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00:00"},
		{3723.9, "01:02:03"},
		{59.999, "00:00:59"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.expected {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.expected)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	// Hour/minute/second components survive a parse-then-format cycle.
	inputs := []string{"00:00:01.900", "01:02:03.001", "12:59:59.999"}
	for _, input := range inputs {
		seconds, err := ParseTimestamp(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		want := strings.SplitN(input, ".", 2)[0]
		if got := FormatTimestamp(seconds); got != want {
			t.Errorf("round trip %q = %q, want %q", input, got, want)
		}
	}
}

// Package chapters orchestrates chapter detection and injection for one
// audiobook: caption parsing, book-opening extraction, timeline matching,
// and metadata injection.
package chapters

import (
	"unicode/utf8"

	"chapterize/internal/ffmeta"
	"chapterize/internal/match"
)

// previewLength bounds the opening snippet shown to the operator.
const previewLength = 50

// ChapterMatch is the detection verdict for one book chapter. Detected
// fields are nil when no caption block matched; ManualTimestamp is set by an
// operator to override or supply a timestamp.
type ChapterMatch struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Order             int              `json:"order"`
	OpeningPreview    string           `json:"opening_preview,omitempty"`
	Confidence        match.Confidence `json:"confidence"`
	Score             float64          `json:"score"`
	DetectedSeconds   *float64         `json:"detected_seconds,omitempty"`
	DetectedTimestamp *string          `json:"detected_timestamp,omitempty"`
	ManualTimestamp   *string          `json:"manual_timestamp,omitempty"`
}

// Timestamp returns the timestamp to apply for this match, preferring a
// manual override over the detected one. The second return is false when
// neither exists.
func (m ChapterMatch) Timestamp() (string, bool) {
	if m.ManualTimestamp != nil && *m.ManualTimestamp != "" {
		return *m.ManualTimestamp, true
	}
	if m.DetectedTimestamp != nil && *m.DetectedTimestamp != "" {
		return *m.DetectedTimestamp, true
	}
	return "", false
}

// ChapterToApply is one chapter ready for injection.
type ChapterToApply struct {
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

// ToApply converts detection results into an injection list, skipping
// chapters that have neither a detected nor a manual timestamp.
func ToApply(matches []ChapterMatch) []ChapterToApply {
	out := make([]ChapterToApply, 0, len(matches))
	for _, m := range matches {
		ts, ok := m.Timestamp()
		if !ok {
			continue
		}
		out = append(out, ChapterToApply{Title: m.Title, Timestamp: ts})
	}
	return out
}

func toFFMeta(chapters []ChapterToApply) []ffmeta.Chapter {
	out := make([]ffmeta.Chapter, len(chapters))
	for i, ch := range chapters {
		out[i] = ffmeta.Chapter{Title: ch.Title, Timestamp: ch.Timestamp}
	}
	return out
}

// preview shortens an opening sample for table and log output.
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "..."
}

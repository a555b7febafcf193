// Package captions parses WebVTT-style caption tracks into timed cues.
//
// The narration pipeline produces captions alongside the audio, so cue order
// follows file order and is never re-sorted; a malformed track is passed
// through as-is rather than repaired. Cues whose timestamp line cannot be
// parsed are skipped entirely.
package captions

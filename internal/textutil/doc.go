// Package textutil provides the text normalization shared by chapter
// matching and metadata generation.
//
// Matching compares EPUB body text against transcribed narration, so the
// normalization here is deliberately aggressive: Unicode NFC, lower-casing,
// punctuation stripping, and whitespace collapsing. Keeping it in one place
// guarantees opening text and timeline blocks are folded identically.
package textutil

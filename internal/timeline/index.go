// Package timeline builds a searchable sliding-window index over caption cues.
package timeline

import (
	"strings"

	"chapterize/internal/captions"
)

// WindowSize is the number of consecutive cues combined into one block.
// Chapter openings often straddle a cue boundary; overlapping five-cue
// windows keep the full opening inside at least one block.
const WindowSize = 5

// Block is one overlapping window of cue text keyed by the start time of
// the window's first cue. Text is lower-cased at build time so matching
// never re-folds it.
type Block struct {
	Text  string
	Start float64
}

// Build creates one block per cue position. Block i covers cues[i..i+WindowSize),
// shorter at the tail. An empty cue sequence yields an empty index.
func Build(cues []captions.Cue) []Block {
	blocks := make([]Block, 0, len(cues))
	for i := range cues {
		end := min(i+WindowSize, len(cues))
		parts := make([]string, 0, end-i)
		for _, cue := range cues[i:end] {
			parts = append(parts, cue.Text)
		}
		blocks = append(blocks, Block{
			Text:  strings.ToLower(strings.Join(parts, " ")),
			Start: cues[i].Start,
		})
	}
	return blocks
}

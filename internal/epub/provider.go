package epub

import (
	"fmt"

	"chapterize/internal/textutil"
)

// openingLength bounds the opening-text sample. Long enough to hold several
// distinguishing words, short enough to avoid over-fitting to generic
// passages repeated elsewhere in the narration.
const openingLength = 100

// ChapterInfo identifies one chapter in book order.
type ChapterInfo struct {
	ID    string
	Title string
}

// Provider exposes book structure to the pipeline.
type Provider interface {
	// Chapters returns the book's chapters in document order.
	Chapters(epubPath string) ([]ChapterInfo, error)
	// ChapterText returns the full body text of one chapter.
	ChapterText(epubPath, chapterID string) (string, error)
}

// ChapterDescriptor is one chapter prepared for timeline matching.
type ChapterDescriptor struct {
	ID          string
	Title       string
	Order       int
	OpeningText string
}

// ExtractOpenings derives ordered chapter descriptors from the provider.
// A text-retrieval failure for a single chapter degrades that chapter to an
// empty opening instead of aborting the extraction; a structure failure
// aborts.
func ExtractOpenings(provider Provider, epubPath string) ([]ChapterDescriptor, error) {
	infos, err := provider.Chapters(epubPath)
	if err != nil {
		return nil, fmt.Errorf("read book structure: %w", err)
	}

	descriptors := make([]ChapterDescriptor, 0, len(infos))
	for i, info := range infos {
		opening := ""
		if text, err := provider.ChapterText(epubPath, info.ID); err == nil {
			opening = textutil.TruncateRunes(textutil.CollapseWhitespace(text), openingLength)
		}
		descriptors = append(descriptors, ChapterDescriptor{
			ID:          info.ID,
			Title:       info.Title,
			Order:       i + 1,
			OpeningText: opening,
		})
	}
	return descriptors, nil
}

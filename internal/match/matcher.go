// Package match locates chapter openings inside a caption timeline using a
// bag-of-substantial-words heuristic.
//
// The scorer favors the block containing the most distinct matching
// vocabulary regardless of word order, which tolerates minor transcription
// errors and reordering. It can mis-rank when unrelated passages share many
// of the same long words; confidence tiers surface that uncertainty.
package match

import (
	"strings"
	"unicode/utf8"

	"chapterize/internal/textutil"
	"chapterize/internal/timeline"
)

// Confidence classifies how trustworthy a detected chapter timestamp is.
type Confidence string

const (
	High     Confidence = "high"
	Medium   Confidence = "medium"
	Low      Confidence = "low"
	Manual   Confidence = "manual"
	NotFound Confidence = "not_found"
)

const (
	// minOpeningRunes rejects openings too short to be discriminative.
	minOpeningRunes = 10
	// acceptThreshold is exclusive: a block matching exactly half the
	// search words is still noise.
	acceptThreshold = 0.5
	highThreshold   = 0.8
	mediumThreshold = 0.6
)

// Result is a successful timeline match.
type Result struct {
	Seconds    float64
	Score      float64
	Confidence Confidence
}

// Best scans the timeline index for the block that contains the largest
// fraction of the opening's search words. It returns false when the opening
// is shorter than ten characters, produces no search words, or no block
// scores above 0.5.
//
// Ties break to the earliest block: the running best is replaced only on a
// strictly greater score, keeping results deterministic for repeated
// vocabulary.
func Best(openingText string, blocks []timeline.Block) (Result, bool) {
	opening := strings.TrimSpace(openingText)
	if utf8.RuneCountInString(opening) < minOpeningRunes {
		return Result{}, false
	}

	words := textutil.SearchWords(textutil.NormalizeForMatch(opening))
	if len(words) == 0 {
		return Result{}, false
	}

	bestScore := 0.0
	bestStart := 0.0
	found := false
	for _, block := range blocks {
		haystack := textutil.NormalizeForMatch(block.Text)
		matched := 0
		for _, word := range words {
			if strings.Contains(haystack, word) {
				matched++
			}
		}
		score := float64(matched) / float64(len(words))
		if score > acceptThreshold && score > bestScore {
			bestScore = score
			bestStart = block.Start
			found = true
		}
	}

	if !found {
		return Result{}, false
	}
	return Result{Seconds: bestStart, Score: bestScore, Confidence: tier(bestScore)}, true
}

func tier(score float64) Confidence {
	switch {
	case score >= highThreshold:
		return High
	case score >= mediumThreshold:
		return Medium
	default:
		return Low
	}
}

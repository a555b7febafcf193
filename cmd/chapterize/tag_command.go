package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chapterize/internal/chapters"
	"chapterize/internal/match"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	var minConfidence string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tag <book.epub> <captions.vtt> <media-file>",
		Short: "Detect and inject chapters in one run",
		Long: `Tag runs detection and immediately injects every chapter at or above the
confidence floor. Use "detect" plus "apply" instead when the result needs
review or manual timestamps first.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			floor, err := parseConfidence(minConfidence)
			if err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			service, cleanup, err := ctx.newService(chapters.WithProgress(func(u chapters.ProgressUpdate) {
				fmt.Fprintf(errOut, "[%3.0f%%] %s\n", u.Percent*100, u.Message)
			}))
			if err != nil {
				return err
			}
			defer cleanup()

			detectResult, err := service.Detect(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			kept := filterByConfidence(detectResult.Chapters, floor)
			toApply := chapters.ToApply(kept)
			if len(toApply) == 0 {
				return fmt.Errorf("no chapter matched at %s confidence or better; run detect and review", minConfidence)
			}

			applyResult, err := service.Apply(cmd.Context(), args[2], toApply)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, struct {
					Detect chapters.DetectResult `json:"detect"`
					Apply  chapters.ApplyResult  `json:"apply"`
				}{detectResult, applyResult})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderMatchTable(out, detectResult.Chapters))
			fmt.Fprintf(out, "Matched %d of %d chapters; applied %d to %s\n",
				detectResult.MatchedCount, len(detectResult.Chapters),
				applyResult.ChaptersApplied, applyResult.OutputPath)
			if skipped := len(detectResult.Chapters) - len(kept); skipped > 0 {
				fmt.Fprintf(out, "Skipped %d chapters below %s confidence\n", skipped, minConfidence)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&minConfidence, "min-confidence", "medium", "Confidence floor for injection: high, medium, or low")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit detection and injection results as JSON")
	return cmd
}

func parseConfidence(value string) (match.Confidence, error) {
	switch match.Confidence(value) {
	case match.High, match.Medium, match.Low:
		return match.Confidence(value), nil
	default:
		return "", fmt.Errorf("invalid --min-confidence %q: want high, medium, or low", value)
	}
}

func confidenceRank(c match.Confidence) int {
	switch c {
	case match.High, match.Manual:
		return 3
	case match.Medium:
		return 2
	case match.Low:
		return 1
	default:
		return 0
	}
}

func filterByConfidence(matches []chapters.ChapterMatch, floor match.Confidence) []chapters.ChapterMatch {
	kept := make([]chapters.ChapterMatch, 0, len(matches))
	for _, m := range matches {
		if m.ManualTimestamp != nil || confidenceRank(m.Confidence) >= confidenceRank(floor) {
			kept = append(kept, m)
		}
	}
	return kept
}

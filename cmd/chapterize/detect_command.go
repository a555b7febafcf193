package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"chapterize/internal/chapters"
	"chapterize/internal/match"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var outputPath string

	cmd := &cobra.Command{
		Use:   "detect <book.epub> <captions.vtt>",
		Short: "Detect chapter timestamps by matching book openings against a caption track",
		Long: `Detect parses the caption track, extracts the opening of every chapter
from the book, and locates each opening on the caption timeline. The result
lists one row per book chapter, including chapters that could not be found.

Use --output to save the result as JSON for a later "chapterize apply" run;
the file can be hand-edited to add a manual_timestamp for any chapter.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, cleanup, err := ctx.newService()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := service.Detect(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := writeDetectResult(outputPath, result); err != nil {
					return err
				}
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderMatchTable(out, result.Chapters))
			fmt.Fprintf(out, "Matched %d of %d chapters\n", result.MatchedCount, len(result.Chapters))
			if outputPath != "" {
				fmt.Fprintf(out, "Wrote detection result to %s\n", outputPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the detection result as JSON")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the detection result to a JSON file")
	return cmd
}

func writeDetectResult(path string, result chapters.DetectResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode detection result: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write detection result: %w", err)
	}
	return nil
}

func renderMatchTable(out io.Writer, matches []chapters.ChapterMatch) string {
	headers := []string{"#", "TITLE", "TIMESTAMP", "CONFIDENCE", "SCORE", "OPENING"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		timestamp := "-"
		if ts, ok := m.Timestamp(); ok {
			timestamp = ts
		}
		score := "-"
		if m.Confidence != match.NotFound && m.Confidence != match.Manual {
			score = strconv.FormatFloat(m.Score, 'f', 2, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(m.Order),
			m.Title,
			timestamp,
			string(m.Confidence),
			score,
			m.OpeningPreview,
		})
	}
	return renderTable(out, headers, rows, aligns)
}

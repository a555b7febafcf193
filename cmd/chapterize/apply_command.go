package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chapterize/internal/chapters"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var chaptersPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "apply <media-file>",
		Short: "Inject previously detected chapters into an audio file",
		Long: `Apply reads a detection result saved by "chapterize detect --output" and
writes its chapters into the media file's container metadata. Chapters
without a detected or manual timestamp are skipped. The original file is
replaced only after ffmpeg succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toApply, err := loadChapters(chaptersPath)
			if err != nil {
				return err
			}

			service, cleanup, err := ctx.newService()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := service.Apply(cmd.Context(), args[0], toApply)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Applied %d chapters to %s\n", result.ChaptersApplied, result.OutputPath)
			fmt.Fprintf(out, "Backup removed: %s\n", yesNo(result.BackupRemoved))
			return nil
		},
	}

	cmd.Flags().StringVar(&chaptersPath, "chapters", "", "Detection result JSON produced by detect --output (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the injection result as JSON")
	_ = cmd.MarkFlagRequired("chapters")
	return cmd
}

// loadChapters accepts either a full detection result or a bare chapter
// list, so hand-written timestamp files work too.
func loadChapters(path string) ([]chapters.ChapterToApply, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chapters file: %w", err)
	}

	var result chapters.DetectResult
	if err := json.Unmarshal(data, &result); err == nil && len(result.Chapters) > 0 {
		toApply := chapters.ToApply(result.Chapters)
		if len(toApply) == 0 {
			return nil, fmt.Errorf("no chapter in %s has a usable timestamp", path)
		}
		return toApply, nil
	}

	var list []chapters.ChapterToApply
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse chapters file %s: %w", path, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("chapters file %s is empty", path)
	}
	return list, nil
}

package chapters

import (
	"context"
	"fmt"
	"os"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"chapterize/internal/captions"
	"chapterize/internal/epub"
	"chapterize/internal/history"
	"chapterize/internal/inject"
	"chapterize/internal/logging"
	"chapterize/internal/match"
	"chapterize/internal/services"
	"chapterize/internal/timeline"
)

// ProgressUpdate reports pipeline progress to an optional observer.
type ProgressUpdate struct {
	Stage   string
	Percent float64
	Message string
}

// Injector applies chapter metadata to a media file.
type Injector interface {
	Apply(ctx context.Context, req inject.Request) (inject.Result, error)
}

// Recorder persists run history. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Service runs the detection and injection pipelines.
type Service struct {
	logger   *slog.Logger
	provider epub.Provider
	injector Injector
	history  Recorder
	progress func(ProgressUpdate)
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithHistory records every run in the given store.
func WithHistory(store Recorder) ServiceOption {
	return func(s *Service) { s.history = store }
}

// WithProgress installs a progress observer. The callback runs synchronously
// on the pipeline goroutine and must return quickly.
func WithProgress(fn func(ProgressUpdate)) ServiceOption {
	return func(s *Service) { s.progress = fn }
}

// NewService constructs the pipeline service.
func NewService(logger *slog.Logger, provider epub.Provider, injector Injector, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	svc := &Service{
		logger:   logging.NewComponentLogger(logger, "chapters"),
		provider: provider,
		injector: injector,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// DetectResult is the outcome of one detection run.
type DetectResult struct {
	RunID        string         `json:"run_id"`
	SourcePath   string         `json:"source_path"`
	CaptionPath  string         `json:"caption_path"`
	Chapters     []ChapterMatch `json:"chapters"`
	MatchedCount int            `json:"matched_count"`
}

// ApplyResult is the outcome of one injection run.
type ApplyResult struct {
	RunID           string `json:"run_id"`
	OutputPath      string `json:"output_path"`
	ChaptersApplied int    `json:"chapters_applied"`
	BackupRemoved   bool   `json:"backup_removed"`
}

func (s *Service) emit(stage string, percent float64, message string) {
	if s.progress != nil {
		s.progress(ProgressUpdate{Stage: stage, Percent: percent, Message: message})
	}
}

// Detect parses the caption track, extracts chapter openings from the book,
// and matches each opening against the caption timeline. Chapters whose
// opening never matches are reported as not_found rather than dropped, so
// the result always covers the whole book.
func (s *Service) Detect(ctx context.Context, epubPath, captionPath string) (DetectResult, error) {
	if s == nil || s.provider == nil {
		return DetectResult{}, services.Wrap(services.ErrConfiguration, "chapters", "detect", "service not initialized", nil)
	}
	if strings.TrimSpace(epubPath) == "" || strings.TrimSpace(captionPath) == "" {
		return DetectResult{}, services.Wrap(services.ErrValidation, "chapters", "detect", "book and caption paths are required", nil)
	}
	for _, path := range []string{epubPath, captionPath} {
		if _, err := os.Stat(path); err != nil {
			return DetectResult{}, services.Wrap(services.ErrNotFound, "chapters", "detect",
				fmt.Sprintf("input file %q not found", path), err)
		}
	}
	if err := ctx.Err(); err != nil {
		return DetectResult{}, err
	}

	runID := uuid.NewString()
	logger := s.logger.With(logging.String(logging.FieldRunID, runID))

	s.emit("parse_captions", 0.1, "parsing caption track")
	cues, err := captions.ParseFile(captionPath)
	if err != nil {
		return DetectResult{}, services.Wrap(services.ErrValidation, "chapters", "parse captions", captionPath, err)
	}
	if len(cues) == 0 {
		logger.Warn("caption track produced no cues",
			logging.String("caption_path", captionPath),
			logging.String(logging.FieldErrorHint, "check that the file is a valid WebVTT or SRT track"),
		)
	}

	s.emit("extract_openings", 0.3, "extracting chapter openings")
	descriptors, err := epub.ExtractOpenings(s.provider, epubPath)
	if err != nil {
		return DetectResult{}, services.Wrap(services.ErrValidation, "chapters", "extract openings", epubPath, err)
	}

	s.emit("build_index", 0.5, "building timeline index")
	blocks := timeline.Build(cues)

	s.emit("match", 0.6, fmt.Sprintf("matching %d chapters", len(descriptors)))
	matches := make([]ChapterMatch, 0, len(descriptors))
	matched := 0
	for _, desc := range descriptors {
		if err := ctx.Err(); err != nil {
			return DetectResult{}, err
		}
		cm := ChapterMatch{
			ID:             desc.ID,
			Title:          desc.Title,
			Order:          desc.Order,
			OpeningPreview: preview(desc.OpeningText),
			Confidence:     match.NotFound,
		}
		if result, ok := match.Best(desc.OpeningText, blocks); ok {
			seconds := result.Seconds
			timestamp := captions.FormatTimestamp(result.Seconds)
			cm.Confidence = result.Confidence
			cm.Score = result.Score
			cm.DetectedSeconds = &seconds
			cm.DetectedTimestamp = &timestamp
			matched++
		}
		matches = append(matches, cm)
	}
	s.emit("done", 1.0, "detection complete")

	logger.Info("chapter detection complete",
		logging.String(logging.FieldEventType, "detect_complete"),
		logging.String("source_path", epubPath),
		logging.String("caption_path", captionPath),
		logging.Int("chapter_count", len(matches)),
		logging.Int("matched_count", matched),
	)

	s.record(ctx, history.Entry{
		RunID:        runID,
		Operation:    "detect",
		SourcePath:   epubPath,
		ChapterCount: len(matches),
		MatchedCount: matched,
		Status:       "ok",
	})

	return DetectResult{
		RunID:        runID,
		SourcePath:   epubPath,
		CaptionPath:  captionPath,
		Chapters:     matches,
		MatchedCount: matched,
	}, nil
}

// Apply injects the given chapters into the media file.
func (s *Service) Apply(ctx context.Context, mediaPath string, toApply []ChapterToApply) (ApplyResult, error) {
	if s == nil || s.injector == nil {
		return ApplyResult{}, services.Wrap(services.ErrConfiguration, "chapters", "apply", "service not initialized", nil)
	}
	if len(toApply) == 0 {
		return ApplyResult{}, services.Wrap(services.ErrValidation, "chapters", "apply", "no chapters with a usable timestamp", nil)
	}

	runID := uuid.NewString()
	logger := s.logger.With(logging.String(logging.FieldRunID, runID))

	s.emit("inject", 0.1, fmt.Sprintf("writing %d chapters", len(toApply)))
	result, err := s.injector.Apply(ctx, inject.Request{
		MediaPath: mediaPath,
		Chapters:  toFFMeta(toApply),
	})
	if err != nil {
		s.record(ctx, history.Entry{
			RunID:        runID,
			Operation:    "apply",
			MediaPath:    mediaPath,
			ChapterCount: len(toApply),
			Status:       "failed",
			Detail:       err.Error(),
		})
		return ApplyResult{}, err
	}
	s.emit("done", 1.0, "injection complete")

	logger.Info("chapters applied",
		logging.String(logging.FieldEventType, "apply_complete"),
		logging.String("media_path", mediaPath),
		logging.Int("chapters_applied", result.ChaptersApplied),
	)

	s.record(ctx, history.Entry{
		RunID:        runID,
		Operation:    "apply",
		MediaPath:    mediaPath,
		ChapterCount: result.ChaptersApplied,
		MatchedCount: result.ChaptersApplied,
		Status:       "ok",
	})

	return ApplyResult{
		RunID:           runID,
		OutputPath:      result.OutputPath,
		ChaptersApplied: result.ChaptersApplied,
		BackupRemoved:   result.BackupRemoved,
	}, nil
}

// record persists a history entry when a store is configured. History is
// best effort: a write failure is logged, never propagated.
func (s *Service) record(ctx context.Context, entry history.Entry) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record run history",
			logging.Error(err),
			logging.String(logging.FieldRunID, entry.RunID),
		)
	}
}

// Package inject writes chapter metadata into audio containers with an
// atomic file swap.
package inject

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/gofrs/flock"

	"chapterize/internal/ffmeta"
	"chapterize/internal/fileutil"
	"chapterize/internal/logging"
	"chapterize/internal/services"
	"chapterize/internal/services/ffmpeg"
)

// sidecarSuffix names the temporary metadata document next to the media file.
const sidecarSuffix = ".chapters.ffmeta"

// tempPrefix marks the in-progress output file. The temp file keeps the
// media extension so ffmpeg picks the right output muxer.
const tempPrefix = ".chaptered-"

// Request describes one injection.
type Request struct {
	MediaPath string
	Chapters  []ffmeta.Chapter
}

// Result reports a completed injection.
type Result struct {
	OutputPath      string
	ChaptersApplied int
	BackupRemoved   bool
}

// Injector remuxes chapter metadata into a media file in place.
type Injector struct {
	logger *slog.Logger
	client ffmpeg.Client
}

// NewInjector constructs an injector using the given ffmpeg client.
func NewInjector(logger *slog.Logger, client ffmpeg.Client) *Injector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Injector{
		logger: logging.NewComponentLogger(logger, "inject"),
		client: client,
	}
}

// SidecarPath returns the metadata sidecar path for a media file.
func SidecarPath(mediaPath string) string {
	return mediaPath + sidecarSuffix
}

// TempOutputPath returns the in-progress output path for a media file. It
// lives in the same directory so the final rename never crosses filesystems.
func TempOutputPath(mediaPath string) string {
	dir := filepath.Dir(mediaPath)
	base := filepath.Base(mediaPath)
	return filepath.Join(dir, tempPrefix+base)
}

// Apply renders the chapter metadata, remuxes it into the media file via
// ffmpeg, and swaps the result into place. On any failure the original file
// is left untouched and intermediate files are cleaned up. The sidecar
// metadata document is always removed.
func (inj *Injector) Apply(ctx context.Context, req Request) (Result, error) {
	if inj == nil || inj.client == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "inject", "apply", "injector not initialized", nil)
	}
	if strings.TrimSpace(req.MediaPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "inject", "apply", "media path is required", nil)
	}
	if len(req.Chapters) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "inject", "apply", "at least one chapter is required", nil)
	}
	if _, err := os.Stat(req.MediaPath); err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "inject", "apply",
			fmt.Sprintf("media file %q not found", req.MediaPath), err)
	}

	document, err := ffmeta.Render(req.Chapters)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "inject", "render metadata", "invalid chapter list", err)
	}

	lock := flock.New(req.MediaPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "inject", "lock",
			fmt.Sprintf("acquire lock for %q", req.MediaPath), err)
	}
	if !locked {
		return Result{}, services.Wrap(services.ErrValidation, "inject", "lock",
			fmt.Sprintf("another injection is already running for %q", req.MediaPath), nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	sidecarPath := SidecarPath(req.MediaPath)
	if err := os.WriteFile(sidecarPath, []byte(document), 0o644); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "inject", "write metadata",
			fmt.Sprintf("write sidecar %q", sidecarPath), err)
	}
	defer func() {
		if err := os.Remove(sidecarPath); err != nil && !os.IsNotExist(err) {
			inj.logger.Warn("failed to remove metadata sidecar",
				logging.Error(err),
				logging.String("sidecar_path", sidecarPath),
				logging.String(logging.FieldEventType, "sidecar_removal_failed"),
			)
		}
	}()

	tempPath := TempOutputPath(req.MediaPath)

	inj.logger.Debug("executing ffmpeg",
		logging.String("media_path", req.MediaPath),
		logging.Int("chapter_count", len(req.Chapters)),
	)

	if err := inj.client.WriteChapters(ctx, req.MediaPath, sidecarPath, tempPath); err != nil {
		_ = os.Remove(tempPath)
		return Result{}, err
	}
	if _, err := os.Stat(tempPath); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "inject", "apply",
			"ffmpeg did not produce an output file", err)
	}

	backupRemoved, err := fileutil.ReplaceFile(req.MediaPath, tempPath)
	if err != nil {
		_ = os.Remove(tempPath)
		return Result{}, services.Wrap(services.ErrExternalTool, "inject", "replace", "swap output into place", err)
	}
	if !backupRemoved {
		inj.logger.Warn("stale backup left behind",
			logging.String("backup_path", fileutil.BackupPath(req.MediaPath)),
			logging.String(logging.FieldEventType, "backup_removal_failed"),
		)
	}

	inj.logger.Info("chapters injected",
		logging.String(logging.FieldEventType, "chapters_injected"),
		logging.String("media_path", req.MediaPath),
		logging.Int("chapters_applied", len(req.Chapters)),
	)

	return Result{
		OutputPath:      req.MediaPath,
		ChaptersApplied: len(req.Chapters),
		BackupRemoved:   backupRemoved,
	}, nil
}

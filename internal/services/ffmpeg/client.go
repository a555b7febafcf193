// Package ffmpeg wraps the ffmpeg command line for chapter muxing.
package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"chapterize/internal/services"
)

var commandContext = exec.CommandContext

// DefaultBinary is the ffmpeg executable name resolved via PATH.
const DefaultBinary = "ffmpeg"

// diagnosticCapacity bounds captured stderr. ffmpeg can be extremely chatty;
// only the most recent bytes are kept.
const diagnosticCapacity = 64 * 1024

// Client defines chapter muxing behaviour.
type Client interface {
	// WriteChapters remuxes inputPath with the global metadata (chapters)
	// from metadataPath into outputPath without re-encoding any stream.
	WriteChapters(ctx context.Context, inputPath, metadataPath, outputPath string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI invokes the ffmpeg executable.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: DefaultBinary}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// WriteChapters runs ffmpeg with stream copy, mapping every stream from the
// primary input and global metadata from the metadata input. A process that
// never starts is reported as services.ErrStartFailed; a non-zero exit as
// services.ErrExternalTool with the diagnostic tail attached.
func (c *CLI) WriteChapters(ctx context.Context, inputPath, metadataPath, outputPath string) error {
	if strings.TrimSpace(inputPath) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "write chapters", "input path is required", nil)
	}
	if strings.TrimSpace(metadataPath) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "write chapters", "metadata path is required", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "write chapters", "output path is required", nil)
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-i", metadataPath,
		"-map", "0",
		"-map_metadata", "1",
		"-codec", "copy",
		outputPath,
	}

	diagnostics := newRingBuffer(diagnosticCapacity)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Stderr = diagnostics

	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrStartFailed, "ffmpeg", "start", c.binary, err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		message := "muxing failed"
		if errors.As(err, &exitErr) {
			if tail := strings.TrimSpace(diagnostics.String()); tail != "" {
				message = tail
			}
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "write chapters", message, err)
	}
	return nil
}

var _ Client = (*CLI)(nil)

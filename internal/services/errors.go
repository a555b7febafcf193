package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks violated preconditions (empty chapter list,
	// missing arguments).
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks missing or unreadable input files.
	ErrNotFound = errors.New("not found")
	// ErrExternalTool marks a subprocess that ran and exited non-zero.
	ErrExternalTool = errors.New("external tool error")
	// ErrStartFailed marks a subprocess that never started (binary missing,
	// permission denied). Reported distinctly from a non-zero exit.
	ErrStartFailed = errors.New("process start failed")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

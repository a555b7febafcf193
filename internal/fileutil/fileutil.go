// Package fileutil provides file copy and replace primitives for media
// post-processing.
package fileutil

import (
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// BackupPath returns the path the original file is parked at during a swap.
func BackupPath(originalPath string) string {
	return originalPath + ".backup"
}

// ReplaceFile swaps newPath into place of originalPath as a three-step
// sequence: rename original to a backup, rename the new file over the
// original, delete the backup. True single-step atomicity is platform
// dependent; the explicit backup keeps every intermediate state recoverable.
//
// Recovery procedure if the process dies mid-swap: when only the backup
// exists, rename it back to the original path; when both the original and
// the backup exist, the swap completed and the backup can be deleted.
//
// A failed backup deletion is non-fatal and reported via backupRemoved;
// a failed rename returns an error naming both paths for manual recovery.
func ReplaceFile(originalPath, newPath string) (backupRemoved bool, err error) {
	backupPath := BackupPath(originalPath)

	if err := os.Rename(originalPath, backupPath); err != nil {
		return false, fmt.Errorf("park original %q as backup %q: %w", originalPath, backupPath, err)
	}
	if err := os.Rename(newPath, originalPath); err != nil {
		return false, fmt.Errorf("move %q into place at %q (original preserved at %q): %w",
			newPath, originalPath, backupPath, err)
	}
	if err := os.Remove(backupPath); err != nil {
		return false, nil
	}
	return true, nil
}

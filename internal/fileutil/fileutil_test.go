package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	write(t, src, "payload")

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	if got := read(t, dst); got != "payload" {
		t.Errorf("dst contents = %q", got)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "book.m4b")
	replacement := filepath.Join(dir, ".chaptered-book.m4b")
	write(t, original, "original bytes")
	write(t, replacement, "chaptered bytes")

	backupRemoved, err := ReplaceFile(original, replacement)
	if err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	if !backupRemoved {
		t.Error("expected backup to be removed")
	}
	if got := read(t, original); got != "chaptered bytes" {
		t.Errorf("original contents = %q", got)
	}
	if _, err := os.Stat(replacement); !os.IsNotExist(err) {
		t.Error("replacement file should be gone")
	}
	if _, err := os.Stat(BackupPath(original)); !os.IsNotExist(err) {
		t.Error("backup file should be gone")
	}
}

func TestReplaceFileMissingOriginal(t *testing.T) {
	dir := t.TempDir()
	replacement := filepath.Join(dir, "new.m4b")
	write(t, replacement, "data")

	_, err := ReplaceFile(filepath.Join(dir, "absent.m4b"), replacement)
	if err == nil {
		t.Fatal("expected error when original is missing")
	}
	// The replacement must be left untouched for manual recovery.
	if _, statErr := os.Stat(replacement); statErr != nil {
		t.Errorf("replacement should survive a failed swap: %v", statErr)
	}
}

func TestReplaceFileMissingReplacementDescribesState(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "book.m4b")
	write(t, original, "original bytes")

	_, err := ReplaceFile(original, filepath.Join(dir, "absent-new.m4b"))
	if err == nil {
		t.Fatal("expected error when replacement is missing")
	}
	backup := BackupPath(original)
	if !strings.Contains(err.Error(), backup) {
		t.Errorf("error should name the backup path for recovery: %v", err)
	}
	// The original now lives at the backup path, exactly as the error says.
	if got := read(t, backup); got != "original bytes" {
		t.Errorf("backup contents = %q", got)
	}
}

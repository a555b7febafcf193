package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chapterize/internal/chapters"
	"chapterize/internal/match"
	"chapterize/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`[paths]
log_dir = %q

[history]
enabled = true
path = %q
`, filepath.Join(base, "logs"), filepath.Join(base, "history.db"))
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}

func writeFixtures(t *testing.T, env *cliTestEnv) (epubPath, captionPath string) {
	t.Helper()
	epubPath = filepath.Join(env.baseDir, "book.epub")
	testsupport.WriteEPUB(t, epubPath, []testsupport.EPUBChapter{
		{ID: "ch1", Heading: "Chapter One", Body: "Chapter one begins the story of a distant kingdom and its people."},
		{ID: "ch2", Heading: "Chapter Two", Body: "Meanwhile across the frozen mountains a different tale unfolded entirely without witnesses."},
	})
	captionPath = filepath.Join(env.baseDir, "track.vtt")
	testsupport.WriteFile(t, captionPath, testsupport.CaptionTrack)
	return epubPath, captionPath
}

func TestDetectCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	epubPath, captionPath := writeFixtures(t, env)

	out, _, err := runCLI(t, []string{"detect", epubPath, captionPath, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	var result chapters.DetectResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parse detect output: %v\n%s", err, out)
	}
	if len(result.Chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(result.Chapters))
	}
	if result.Chapters[0].Confidence != match.High {
		t.Errorf("first chapter confidence = %q, want high", result.Chapters[0].Confidence)
	}
	if result.Chapters[1].Confidence != match.NotFound {
		t.Errorf("second chapter confidence = %q, want not_found", result.Chapters[1].Confidence)
	}
	if result.MatchedCount != 1 {
		t.Errorf("matched count = %d, want 1", result.MatchedCount)
	}
}

func TestDetectCommandWritesOutputFile(t *testing.T) {
	env := setupCLITestEnv(t)
	epubPath, captionPath := writeFixtures(t, env)
	outputPath := filepath.Join(env.baseDir, "chapters.json")

	out, _, err := runCLI(t, []string{"detect", epubPath, captionPath, "--output", outputPath}, env.configPath)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	requireContains(t, out, "Matched 1 of 2 chapters")

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	var saved chapters.DetectResult
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("parse output file: %v", err)
	}
	if len(saved.Chapters) != 2 {
		t.Errorf("saved %d chapters, want 2", len(saved.Chapters))
	}
}

func TestHistoryCommandAfterDetect(t *testing.T) {
	env := setupCLITestEnv(t)
	epubPath, captionPath := writeFixtures(t, env)

	if _, _, err := runCLI(t, []string{"detect", epubPath, captionPath, "--json"}, env.configPath); err != nil {
		t.Fatalf("detect: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, `"operation": "detect"`)
	requireContains(t, out, `"status": "ok"`)
}

func TestApplyCommandEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`[paths]
log_dir = %q

[history]
enabled = true
path = %q
`, cfg.Paths.LogDir, cfg.History.Path)
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	mediaPath := filepath.Join(base, "book.m4b")
	testsupport.WriteFile(t, mediaPath, "original audio")

	chaptersPath := filepath.Join(base, "chapters.json")
	testsupport.WriteFile(t, chaptersPath, `[
  {"title": "Chapter 1", "timestamp": "00:00:00"},
  {"title": "Chapter 2", "timestamp": "00:12:34"}
]`)

	out, _, err := runCLI(t, []string{"apply", mediaPath, "--chapters", chaptersPath}, configPath)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	requireContains(t, out, "Applied 2 chapters")

	data, err := os.ReadFile(mediaPath)
	if err != nil {
		t.Fatalf("read media: %v", err)
	}
	if strings.TrimSpace(string(data)) != "stub" {
		t.Errorf("media not replaced by stubbed ffmpeg output: %q", data)
	}

	store := testsupport.MustOpenHistory(t, cfg)
	entries, err := store.List(context.Background(), 5)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if len(entries) != 1 || entries[0].Operation != "apply" || entries[0].Status != "ok" {
		t.Errorf("history entries = %+v", entries)
	}
}

func TestApplyCommandRejectsMissingChaptersFlag(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"apply", filepath.Join(env.baseDir, "book.m4b")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing --chapters flag")
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// Running again without --overwrite must refuse.
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigShowCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show", "--config", env.configPath}, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "ffmpeg binary")
}

func TestTagCommandRejectsBadConfidence(t *testing.T) {
	env := setupCLITestEnv(t)
	epubPath, captionPath := writeFixtures(t, env)

	_, _, err := runCLI(t, []string{
		"tag", epubPath, captionPath, filepath.Join(env.baseDir, "book.m4b"),
		"--min-confidence", "extreme",
	}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "min-confidence") {
		t.Fatalf("tag error = %v, want min-confidence complaint", err)
	}
}

package pjsua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLocateIn_FirstCandidateWins(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeExecutable(t, filepath.Join(dirA, "pjsua-cli"))
	writeExecutable(t, filepath.Join(dirB, "pjsua"))

	got, err := locateIn([]string{dirA, dirB}, []string{"pjsua", "pjsua-cli"})
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if got != filepath.Join(dirA, "pjsua-cli") {
		t.Fatalf("expected first directory to win, got %q", got)
	}
}

func TestLocateIn_NameOrderWithinDir(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, filepath.Join(dir, "pjsua"))
	writeExecutable(t, filepath.Join(dir, "pjsua-cli"))

	got, err := locateIn([]string{dir}, []string{"pjsua", "pjsua-cli"})
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if got != filepath.Join(dir, "pjsua") {
		t.Fatalf("expected pjsua before pjsua-cli, got %q", got)
	}
}

func TestLocateIn_SkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pjsua"), []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	writeExecutable(t, filepath.Join(dir, "pjsua-cli"))

	got, err := locateIn([]string{dir}, []string{"pjsua", "pjsua-cli"})
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if got != filepath.Join(dir, "pjsua-cli") {
		t.Fatalf("expected non-executable to be skipped, got %q", got)
	}
}

func TestLocateIn_NotFoundListsProbedPaths(t *testing.T) {
	dir := t.TempDir()

	_, err := locateIn([]string{dir}, []string{"pjsua", "pjsua-cli"})
	if err == nil {
		t.Fatalf("expected NotFound")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), filepath.Join(dir, "pjsua")) {
		t.Fatalf("expected probed path in error, got: %v", err)
	}
}

package bencheval_test

import (
	"path/filepath"
	"testing"

	bencheval "github.com/tmiemietz/fastcall-spma"
)

func Test_ScanDirs_Skips_Files(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, filepath.Join("cpu0", ".keep"), "")
	writeFile(t, root, filepath.Join("cpu1", ".keep"), "")
	writeFile(t, root, "stray.csv", "noop\n1\n")

	entries, err := bencheval.ScanDirs(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(entries), entries)
	}

	names := map[string]bool{}
	for _, entry := range entries {
		names[entry.Name] = true
	}

	if !names["cpu0"] || !names["cpu1"] {
		t.Fatalf("missing cpu directories in scan: %v", entries)
	}
}

func Test_ScanCycleFiles_Skips_NonMatching_Entries(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "cycles-fastcall.csv", "noop\n1\n")
	writeFile(t, root, "cycles-fccmp.csv", "noop\n1\n")
	writeFile(t, root, "misc-fastcall.csv", "fork-simple\n1\n")
	writeFile(t, root, "notes.txt", "ignore me")
	writeFile(t, root, filepath.Join("subdir", ".keep"), "")

	entries, err := bencheval.ScanCycleFiles(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(entries), entries)
	}

	kernels := map[string]bool{}
	for _, entry := range entries {
		kernels[entry.Name] = true
	}

	if !kernels["fastcall"] || !kernels["fccmp"] {
		t.Fatalf("kernel names not captured from file names: %v", entries)
	}
}

func Test_ScanDirs_Fails_When_Root_Is_Missing(t *testing.T) {
	t.Parallel()

	_, err := bencheval.ScanDirs(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

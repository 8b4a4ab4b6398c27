package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// captureOutput runs f and returns everything it wrote to stdout.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupTestIndex points the --db flag at a fresh database for the
// duration of the test.
func setupTestIndex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	flagDB = path
	t.Cleanup(func() { flagDB = "" })
	return path
}

// isolateConfig points the --config flag at a path that does not
// exist, so tests run against built-in defaults instead of the
// developer's own config file.
func isolateConfig(t *testing.T) {
	t.Helper()
	flagConfig = filepath.Join(t.TempDir(), "config.yaml")
	t.Cleanup(func() { flagConfig = "" })
}

// writeTestFile creates a TaskPaper file under dir.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFileAt writes content to path and stamps it with mtime. A zero mtime
// leaves the filesystem timestamp alone.
func WriteFileAt(t testing.TB, path, content string, mtime time.Time) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if !mtime.IsZero() {
		Touch(t, path, mtime)
	}
}

// Touch sets both access and modification time of an existing path.
func Touch(t testing.TB, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

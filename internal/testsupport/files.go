package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteManifest writes content to name inside dir and returns the full path.
func WriteManifest(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadManifest returns the content of name inside dir, failing the test when
// it cannot be read.
func ReadManifest(t testing.TB, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

// AssertMissing fails the test when name exists inside dir.
func AssertMissing(t testing.TB, dir, name string) {
	t.Helper()

	if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
		t.Fatalf("expected %s to be absent", name)
	} else if !os.IsNotExist(err) {
		t.Fatalf("stat %s: %v", name, err)
	}
}

// Snapshot records the content and modification time of a file so tests can
// assert it was left untouched.
type Snapshot struct {
	Path    string
	Content string
	ModTime time.Time
}

// TakeSnapshot captures path. The modification time is pushed into the past
// so a rewrite within the same clock tick is still detected.
func TakeSnapshot(t testing.TB, path string) Snapshot {
	t.Helper()

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return Snapshot{Path: path, Content: string(data), ModTime: past}
}

// AssertUnchanged fails the test when the file differs from the snapshot.
func (s Snapshot) AssertUnchanged(t testing.TB) {
	t.Helper()

	info, err := os.Stat(s.Path)
	if err != nil {
		t.Fatalf("stat %s: %v", s.Path, err)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatalf("read %s: %v", s.Path, err)
	}
	if string(data) != s.Content {
		t.Fatalf("%s content changed: got %q want %q", s.Path, data, s.Content)
	}
	if !info.ModTime().Equal(s.ModTime) {
		t.Fatalf("%s was rewritten: mtime %s want %s", s.Path, info.ModTime(), s.ModTime)
	}
}

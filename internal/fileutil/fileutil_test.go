package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "package.yml")
	if err := os.WriteFile(file, []byte("name: foo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, err := Exists(file)
	if err != nil || !ok {
		t.Fatalf("expected file to exist, got %v %v", ok, err)
	}

	ok, err = Exists(filepath.Join(dir, "package.json"))
	if err != nil || ok {
		t.Fatalf("expected missing file without error, got %v %v", ok, err)
	}

	if _, err := Exists(dir); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestReadTextStripsUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	if err := os.WriteFile(path, []byte("\xef\xbb\xbf{\"name\":\"foo\"}"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"name":"foo"}` {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestReadTextDecodesUTF16(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.yml")
	// "a: 1" as UTF-16LE with BOM.
	data := []byte{0xff, 0xfe, 'a', 0, ':', 0, ' ', 0, '1', 0}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a: 1" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestReadTextPlainPassesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.yml")
	content := "name: café\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestReadTextMissing(t *testing.T) {
	if _, err := ReadText(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReplaceFileCreates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")

	if err := ReplaceFile(path, []byte("{}\n")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{}\n" {
		t.Fatalf("unexpected content %q", got)
	}
	assertNoTempFiles(t, dir)
}

func TestReplaceFileKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte("old contents that are longer"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := ReplaceFile(path, []byte("new")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %o", info.Mode().Perm())
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("expected truncated content, got %q", got)
	}
	assertNoTempFiles(t, dir)
}

func TestReplaceFileFollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.json")
	link := filepath.Join(dir, "package.json")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if err := ReplaceFile(link, []byte("new")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatal("expected symlink to survive the write")
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("expected link target updated, got %q", got)
	}
}

func TestReplaceFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "package.json")
	if err := ReplaceFile(path, []byte("{}")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Fatalf("temporary file left behind: %s", entry.Name())
		}
	}
}

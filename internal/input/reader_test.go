package input

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urls.txt")
	content := "URL\nexample.com\n\nhttps://foo.test # legacy\nbar.test\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}

	want := []string{"URL", "example.com", "", "https://foo.test # legacy", "bar.test"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("ReadLines() = %q, want %q", lines, want)
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	if _, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("ReadLines() on missing file returned nil error")
	}
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/specstudio/internal/backend"
	"github.com/ziadkadry99/specstudio/internal/progress"
)

func TestFilterFiles(t *testing.T) {
	files := []backend.File{
		{Name: "main.py"},
		{Name: "models/user.py"},
		{Name: "README.md"},
	}

	tests := []struct {
		patterns []string
		want     []string
	}{
		{nil, []string{"main.py", "models/user.py", "README.md"}},
		{[]string{"**/*.py"}, []string{"main.py", "models/user.py"}},
		{[]string{"*.md", "models/*"}, []string{"models/user.py", "README.md"}},
		{[]string{"*.go"}, nil},
	}
	for _, tt := range tests {
		var got []string
		for _, f := range filterFiles(files, tt.patterns) {
			got = append(got, f.Name)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("filterFiles(%v) mismatch (-want +got):\n%s", tt.patterns, diff)
		}
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	var log bytes.Buffer
	files := []backend.File{
		{Name: "main.py", Content: "print('hi')\n"},
		{Name: "models/user.py", Content: "class User: pass\n"},
	}

	if err := writeFiles(dir, files, &progress.Log{Out: &log}); err != nil {
		t.Fatalf("writeFiles: %v", err)
	}
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.Name))
		if err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		if string(data) != f.Content {
			t.Errorf("%s = %q, want %q", f.Name, data, f.Content)
		}
	}
	if !bytes.Contains(log.Bytes(), []byte("[2/2] models/user.py (17 bytes)")) {
		t.Errorf("progress not reported: %s", log.String())
	}
}

func TestWriteFilesRejectsEscapes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"../evil.py", "/etc/passwd"} {
		err := writeFiles(dir, []backend.File{{Name: name}}, &progress.Log{Out: &bytes.Buffer{}})
		if err == nil {
			t.Errorf("writeFiles(%q) should fail", name)
		}
	}
}

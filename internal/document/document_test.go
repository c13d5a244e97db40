package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestTextReadsPlainFiles(t *testing.T) {
	r := New(nil)

	text, err := r.Text(context.Background(), writeFile(t, "resume.txt", "Skills\nGo, SQL\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Skills\nGo, SQL\n" {
		t.Fatalf("unexpected text: %q", text)
	}

	text, err = r.Text(context.Background(), writeFile(t, "empty.md", ""))
	if err != nil || text != "" {
		t.Fatalf("expected empty text without error, got %q, %v", text, err)
	}
}

func TestTextRejectsBinaryAndUnknownFiles(t *testing.T) {
	r := New(nil)

	_, err := r.Text(context.Background(), writeFile(t, "resume.txt", "%PDF-1.7 binary"))
	if !errors.Is(err, ErrBinaryContent) {
		t.Fatalf("expected binary content error, got %v", err)
	}

	if _, err := r.Text(context.Background(), writeFile(t, "resume.docx", "PK")); err == nil {
		t.Fatal("expected unsupported type error")
	}

	if _, err := r.Text(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}

	if _, err := r.Text(context.Background(), filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTextConvertsPDF(t *testing.T) {
	path := writeFile(t, "resume.pdf", "%PDF-1.7")

	var gotName string
	var gotArgs []string
	r := New(nil)
	r.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte("Experience\nAcme"), nil
	}

	text, err := r.Text(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Experience\nAcme" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotName != "pdftotext" || len(gotArgs) != 3 || gotArgs[0] != "-layout" || gotArgs[1] != path || gotArgs[2] != "-" {
		t.Fatalf("unexpected command: %s %v", gotName, gotArgs)
	}

	r.run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("executable file not found")
	}
	if _, err := r.Text(context.Background(), path); err == nil {
		t.Fatal("expected conversion error")
	}

	r.run = func(context.Context, string, ...string) ([]byte, error) { return []byte("  \n"), nil }
	text, err = r.Text(context.Background(), path)
	if err != nil || text != "  \n" {
		t.Fatalf("expected image-only pdf to yield blank text, got %q, %v", text, err)
	}
}

func TestIsBinary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		expect  bool
	}{
		{name: "plain text", content: "Jane Doe\nGo developer\t2024", expect: false},
		{name: "empty", content: "", expect: false},
		{name: "pdf magic", content: "%PDF-1.4", expect: true},
		{name: "zip magic", content: "PK\x03\x04", expect: true},
		{name: "control characters", content: "\x00\x01\x02\x03abc", expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsBinary(tt.content); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

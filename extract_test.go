package summariq

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.TXT")
	if err := os.WriteFile(path, []byte("Cells are the unit of life.\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	doc, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if doc.Text != "Cells are the unit of life.\n" {
		t.Errorf("Text = %q", doc.Text)
	}
	if doc.Name != "notes.TXT" || doc.Format != FormatText {
		t.Errorf("doc = %+v, want name notes.TXT and text format", doc)
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slides.docx")
	if err := os.WriteFile(path, []byte("binary"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := ExtractText(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ExtractText() error = %v, want ErrUnsupportedFormat", err)
	}
	if !IsInputError(err) {
		t.Fatalf("IsInputError() = false, want true")
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ExtractText() error = %v, want os.ErrNotExist", err)
	}
}

func TestExtractTextBrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := ExtractText(path); err == nil {
		t.Fatalf("ExtractText() error = nil, want failure for a broken pdf")
	}
}

package summariq

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads the text of a .txt or .pdf file
func ExtractText(path string) (Document, error) {
	if _, err := os.Stat(path); err != nil {
		return Document{}, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}

	doc := Document{Name: filepath.Base(path)}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("failed to read text file: %w", err)
		}
		doc.Text = string(data)
		doc.Format = FormatText
	case ".pdf":
		text, err := extractPDF(path)
		if err != nil {
			return Document{}, err
		}
		doc.Text = text
		doc.Format = FormatPDF
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	VerboseLog("Extracted %d characters from %s", len(doc.Text), doc.Name)
	return doc, nil
}

// extractPDF concatenates the plain text of every page, one page per line block
func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		if text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

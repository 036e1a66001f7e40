package summariq

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	src := "# Cell Biology\n\n- **Nucleus** holds DNA\n- Mitochondria\n\n## Points to Remember\n\n| Part | Role |\n|---|---|\n| Ribosome | Protein |\n"

	html, err := RenderMarkdown(src)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}

	for _, want := range []string{
		"<h1>Cell Biology</h1>",
		"<li><strong>Nucleus</strong> holds DNA</li>",
		"<h2>Points to Remember</h2>",
		"<table>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("RenderMarkdown() output missing %q:\n%s", want, html)
		}
	}
}

func TestRenderMarkdownOmitsRawHTML(t *testing.T) {
	html, err := RenderMarkdown("Hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("RenderMarkdown() passed raw HTML through: %s", html)
	}
}

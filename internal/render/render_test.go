package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/debemdeboas/scribe/internal/cache"
)

func TestMarkdown(t *testing.T) {
	r := NewRenderer("github")

	testCases := []struct {
		name        string
		markdown    string
		contains    []string
		notContains []string
	}{
		{
			name:     "heading and paragraph",
			markdown: "# Title\n\nSome *text*.",
			contains: []string{"<h1", "Title</h1>", "<em>text</em>"},
		},
		{
			name:     "fenced code is highlighted",
			markdown: "```go\nfunc main() {}\n```",
			contains: []string{`<div class="highlight">`, "chroma", "main"},
		},
		{
			name:        "raw html is skipped",
			markdown:    "hello <script>alert(1)</script>\n\n<div onclick=\"x\">block</div>",
			contains:    []string{"hello"},
			notContains: []string{"<script>", "onclick"},
		},
		{
			name:     "empty content",
			markdown: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := string(r.Markdown([]byte(tc.markdown)))
			for _, s := range tc.contains {
				if !strings.Contains(out, s) {
					t.Errorf("Expected output to contain %q, got %q", s, out)
				}
			}
			for _, s := range tc.notContains {
				if strings.Contains(out, s) {
					t.Errorf("Expected output not to contain %q, got %q", s, out)
				}
			}
		})
	}
}

func TestHighlightUnknownLanguage(t *testing.T) {
	r := NewRenderer("github")

	out := r.Highlight("a < b", "no-such-language")
	if !strings.Contains(out, "&lt;") {
		t.Errorf("Expected escaped output, got %q", out)
	}
}

func TestPostIsCached(t *testing.T) {
	cache.ClearRenderedPosts()
	defer cache.ClearRenderedPosts()

	r := NewRenderer("github")

	first := r.Post("# Cached")
	second := r.Post("# Cached")
	if first != second {
		t.Errorf("Expected identical output, got %q and %q", first, second)
	}

	other := NewRenderer("monokai").Post("# Cached")
	if !strings.Contains(string(other), "Cached") {
		t.Errorf("Expected rendered output for second theme, got %q", other)
	}
}

func TestPostConcurrency(t *testing.T) {
	cache.ClearRenderedPosts()
	defer cache.ClearRenderedPosts()

	r := NewRenderer("github")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if out := r.Post("```go\nx := 1\n```"); out == "" {
				t.Error("Expected non-empty output")
			}
		}()
	}
	wg.Wait()
}

func TestSyntaxCSS(t *testing.T) {
	for _, theme := range []string{"gruvbox", "no-such-theme"} {
		t.Run(theme, func(t *testing.T) {
			css := NewRenderer(theme).SyntaxCSS()
			if !strings.Contains(string(css), ".chroma") {
				t.Errorf("Expected chroma CSS, got %q", css)
			}
		})
	}
}

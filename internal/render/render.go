// Package render turns post content into HTML for the landing page.
package render

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mmarkdown/mmark/v2/lang"
	"github.com/mmarkdown/mmark/v2/mast"
	"github.com/mmarkdown/mmark/v2/mparser"
	"github.com/mmarkdown/mmark/v2/render/mhtml"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/scribe/internal/cache"
	"github.com/debemdeboas/scribe/internal/util"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

type Renderer struct {
	syntaxTheme string
	formatter   *chromahtml.Formatter
}

// NewRenderer returns a renderer highlighting code with the given chroma
// style. Unknown styles fall back to chroma's default.
func NewRenderer(syntaxTheme string) *Renderer {
	return &Renderer{
		syntaxTheme: syntaxTheme,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.TabWidth(4),
			chromahtml.WrapLongLines(true),
		),
	}
}

func (r *Renderer) SyntaxTheme() string {
	return r.syntaxTheme
}

// Post renders post content, reusing earlier output for identical content.
func (r *Renderer) Post(content string) template.HTML {
	hash := util.ContentHashString(content)
	out, hit := cache.RenderedPost(hash, r.syntaxTheme, func() []byte {
		return r.Markdown([]byte(content))
	})

	renderLogger.Debug().Str("content_hash", hash).Bool("hit", hit).Msg("Rendered post")

	return template.HTML(out)
}

// Markdown renders mmark-flavoured markdown. Raw HTML is dropped and file
// includes are disabled since content comes from API clients.
func (r *Renderer) Markdown(md []byte) []byte {
	md = markdown.NormalizeNewlines(md)

	p := parser.NewWithExtensions((mparser.Extensions | parser.NoIntraEmphasis) &^ parser.Includes)

	var info *mast.TitleData
	p.Opts = parser.Options{
		ParserHook: func(data []byte) (ast.Node, []byte, int) {
			node, data, consumed := mparser.Hook(data)
			if t, ok := node.(*mast.Title); ok {
				info = t.TitleData
			}
			return node, data, consumed
		},
		Flags: parser.FlagsNone,
	}

	doc := markdown.Parse(md, p)

	language := "en"
	if info != nil && info.Language != "" {
		language = info.Language
	}
	mhtmlOpts := mhtml.RendererOptions{
		Language: lang.New(language),
	}

	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.SkipHTML | md_html.FootnoteNoHRTag | md_html.FootnoteReturnLinks,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", r.Highlight(string(code.Literal), string(code.Info)))
				return ast.GoToNext, true
			}

			return mhtmlOpts.RenderHook(w, node, entering)
		},
	}

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// Highlight returns code as chroma-classed HTML. On failure the code is
// returned escaped.
func (r *Renderer) Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Error tokenising code")
		return html.EscapeString(code)
	}

	var buf strings.Builder
	if err := r.formatter.Format(&buf, r.style(), iterator); err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Error formatting code")
		return html.EscapeString(code)
	}

	return buf.String()
}

// SyntaxCSS returns the stylesheet matching the classes Highlight emits.
func (r *Renderer) SyntaxCSS() template.CSS {
	return cache.SyntaxCSS(r.syntaxTheme, func() template.CSS {
		var buf strings.Builder
		if err := r.formatter.WriteCSS(&buf, r.style()); err != nil {
			renderLogger.Error().Err(err).Str("theme", r.syntaxTheme).Msg("Error generating syntax CSS")
			return ""
		}
		return template.CSS(buf.String())
	})
}

func (r *Renderer) style() *chroma.Style {
	style := styles.Get(r.syntaxTheme)
	if style == nil {
		style = styles.Fallback
	}
	return style
}

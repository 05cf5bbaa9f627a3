package cache

import "html/template"

var syntaxCache = NewCache[string, template.CSS]()

// SyntaxCSS returns the stylesheet for a chroma theme, generating it once.
func SyntaxCSS(theme string, generate func() template.CSS) template.CSS {
	css, _ := syntaxCache.GetOrSet(theme, generate)
	return css
}

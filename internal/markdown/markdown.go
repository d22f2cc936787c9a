package markdown

import (
	"html/template"
	"strings"

	"github.com/a-h/templ"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type Options struct {
	// RootURL is the public origin of the blog. Absolute links under it are
	// rewritten to site-relative paths.
	RootURL string
}

func parse(source string) ast.Node {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	return p.Parse([]byte(source))
}

// ToHTML renders post content. Raw HTML in the source is dropped.
func ToHTML(source string, opts Options) template.HTML {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	doc := parse(source)
	rewriteLinks(doc, strings.TrimRight(strings.TrimSpace(opts.RootURL), "/"))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: highlightCode,
	})
	return template.HTML(md.Render(doc, renderer))
}

func Render(source string, opts Options) templ.Component {
	return templ.Raw(ToHTML(source, opts))
}

package markdown

import (
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown/ast"
)

var codeFormatter = chromahtml.New(chromahtml.WithClasses(true))

func highlightCode(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	switch code := node.(type) {
	case *ast.CodeBlock:
		writeCodeBlock(w, string(code.Literal), fenceLanguage(code.Info))
		return ast.SkipChildren, true
	case *ast.Code:
		_, _ = io.WriteString(w, `<code class="inline-code">`+html.EscapeString(string(code.Literal))+`</code>`)
		return ast.SkipChildren, true
	}
	return ast.GoToNext, false
}

func writeCodeBlock(w io.Writer, source string, language string) {
	iterator, err := lexerFor(language, source).Tokenise(nil, source)
	if err == nil {
		err = codeFormatter.Format(w, styles.Fallback, iterator)
	}
	if err != nil {
		_, _ = io.WriteString(w, `<pre class="chroma"><code>`+html.EscapeString(source)+`</code></pre>`)
	}
}

func lexerFor(language string, source string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}
	if lexer := lexers.Analyse(source); lexer != nil {
		return lexer
	}
	return lexers.Fallback
}

func fenceLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

package markdown

import (
	"strings"
	"unicode"

	"github.com/gomarkdown/markdown/ast"
)

// PlainText returns the readable text of source: link labels are kept,
// link targets, images, tables and code blocks are dropped.
func PlainText(source string) string {
	var out strings.Builder
	ast.WalkFunc(parse(source), func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			switch node.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.BlockQuote:
				out.WriteByte(' ')
			}
			return ast.GoToNext
		}

		switch n := node.(type) {
		case *ast.CodeBlock, *ast.Image, *ast.Table, *ast.HTMLBlock, *ast.HTMLSpan:
			return ast.SkipChildren
		case *ast.Text:
			out.Write(n.Literal)
		case *ast.Code:
			out.Write(n.Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			out.WriteByte(' ')
		}
		return ast.GoToNext
	})

	return strings.Join(strings.Fields(out.String()), " ")
}

// Excerpt shortens the plain text of source to at most maxChars runes,
// preferring a word boundary in the last fifth of the allowance.
func Excerpt(source string, maxChars int) string {
	if maxChars < 1 {
		return ""
	}

	text := []rune(PlainText(source))
	if len(text) <= maxChars {
		return string(text)
	}

	cut := maxChars
	for idx := maxChars; idx >= maxChars*4/5; idx-- {
		if unicode.IsSpace(text[idx]) {
			cut = idx
			break
		}
	}

	short := strings.TrimSpace(string(text[:cut]))
	if short == "" {
		short = string(text[:maxChars])
	}
	return short + "..."
}

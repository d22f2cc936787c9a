package markdown

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML_PlainParagraph(t *testing.T) {
	got := string(ToHTML("This is my first post", Options{}))
	assert.Equal(t, "<p>This is my first post</p>\n", got)
}

func TestToHTML_EmptyInput(t *testing.T) {
	assert.Empty(t, ToHTML("   \n", Options{}))
}

func TestToHTML_ExternalLinksOpenInNewTab(t *testing.T) {
	html := string(ToHTML("[docs](https://go.dev/doc)", Options{RootURL: "https://blog.example.com"}))

	assert.Contains(t, html, `href="https://go.dev/doc"`)
	assert.Contains(t, html, `target="_blank"`)
	assert.Contains(t, html, `rel="noopener noreferrer"`)
}

func TestToHTML_SameSiteLinksBecomeRelative(t *testing.T) {
	html := string(ToHTML("[next](https://blog.example.com/post/2?x=1#k)", Options{RootURL: "https://blog.example.com/"}))

	assert.Contains(t, html, `href="/post/2?x=1#k"`)
	assert.NotContains(t, html, `target="_blank"`)
}

func TestToHTML_SimilarHostIsNotSameSite(t *testing.T) {
	html := string(ToHTML("[x](https://blog.example.com.evil.test/)", Options{RootURL: "https://blog.example.com"}))

	assert.Contains(t, html, `href="https://blog.example.com.evil.test/"`)
	assert.Contains(t, html, `rel="noopener noreferrer"`)
}

func TestToHTML_RelativeLinksUntouched(t *testing.T) {
	html := string(ToHTML("[home](/)", Options{}))

	assert.Contains(t, html, `href="/"`)
	assert.NotContains(t, html, "target=")
}

func TestToHTML_DropsRawHTML(t *testing.T) {
	html := string(ToHTML("hello <script>alert(1)</script>", Options{}))
	assert.NotContains(t, html, "<script>")
}

func TestToHTML_HighlightsCodeBlocks(t *testing.T) {
	html := string(ToHTML("```go\nfmt.Println(\"hello\")\n```", Options{}))

	assert.Contains(t, html, `class="chroma"`)
	assert.Contains(t, html, "Println")
}

func TestToHTML_InlineCode(t *testing.T) {
	html := string(ToHTML("Use `go test ./...` now.", Options{}))
	assert.Contains(t, html, `<code class="inline-code">go test ./...</code>`)
}

func TestRender_WritesHTML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Render("**bold**", Options{}).Render(context.Background(), &out))
	assert.Equal(t, "<p><strong>bold</strong></p>\n", out.String())
}

func TestPlainText(t *testing.T) {
	source := "# Title\n\nSome **bold** and [a link](https://example.com).\n\n" +
		"```go\nfmt.Println()\n```\n\n![alt](img.png)\n\n- one\n- two"

	assert.Equal(t, "Title Some bold and a link. one two", PlainText(source))
}

func TestExcerpt_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "This is my second post", Excerpt("This is my second post", 160))
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	assert.Equal(t, "alpha beta...", Excerpt("alpha beta gamma delta", 12))
}

func TestExcerpt_TruncatesLongWord(t *testing.T) {
	assert.Equal(t, "abcde...", Excerpt("abcdefghij", 5))
}

func TestExcerpt_NonPositiveLimit(t *testing.T) {
	assert.Empty(t, Excerpt("anything", 0))
}

func TestCodeStyles(t *testing.T) {
	css := CodeStyles()

	assert.Contains(t, css, "prefers-color-scheme: light")
	assert.Contains(t, css, "prefers-color-scheme: dark")
	assert.Contains(t, css, ".chroma")
	assert.Equal(t, css, CodeStyles())
}

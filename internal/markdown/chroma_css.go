package markdown

import (
	"bytes"
	"sync"

	"github.com/alecthomas/chroma/v2/styles"
)

const (
	lightCodeStyle = "github"
	darkCodeStyle  = "monokai"
)

var codeStyles = sync.OnceValue(func() string {
	var out bytes.Buffer
	writeSchemeCSS(&out, "light", lightCodeStyle)
	writeSchemeCSS(&out, "dark", darkCodeStyle)
	return out.String()
})

// CodeStyles is the stylesheet for highlighted code blocks, switching
// palette with the preferred color scheme.
func CodeStyles() string {
	return codeStyles()
}

func writeSchemeCSS(out *bytes.Buffer, scheme string, styleName string) {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	var css bytes.Buffer
	if err := codeFormatter.WriteCSS(&css, style); err != nil {
		return
	}
	out.WriteString("@media (prefers-color-scheme: " + scheme + ") {\n")
	out.Write(css.Bytes())
	out.WriteString("}\n")
}

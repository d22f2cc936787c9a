package suspense

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"

	"github.com/a-h/templ"
)

const headMarker = "<!--suspense:head-->"

type headKey struct{}

type HeadDefaults struct {
	Title string
	Meta  map[string]string
}

type headState struct {
	// inline is set once the head has been sent, so updates must be
	// applied by the browser.
	inline bool

	mu       sync.Mutex
	defaults HeadDefaults
	title    string
	meta     map[string]string
}

func withHead(ctx context.Context, head *headState) context.Context {
	return context.WithValue(ctx, headKey{}, head)
}

func headFrom(ctx context.Context) *headState {
	head, _ := ctx.Value(headKey{}).(*headState)
	return head
}

// HeadOutlet renders <title> and named <meta> tags. In Async mode the tags
// are filled in after the page rendered, so Title and Meta calls anywhere in
// the page end up here.
func HeadOutlet(defaults HeadDefaults) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := headFrom(ctx)
		if head == nil || head.inline {
			_, err := w.Write(renderHeadTags(defaults.Title, defaults.Meta))
			return err
		}

		head.mu.Lock()
		head.defaults = defaults
		head.mu.Unlock()
		_, err := io.WriteString(w, headMarker)
		return err
	})
}

func Title(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := headFrom(ctx)
		if head == nil {
			return nil
		}
		if head.inline {
			return writeHeadScript(w, "document.title="+jsString(text)+";")
		}

		head.mu.Lock()
		head.title = text
		head.mu.Unlock()
		return nil
	})
}

func Meta(name string, content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := headFrom(ctx)
		if head == nil {
			return nil
		}
		if head.inline {
			return writeHeadScript(w, "(function(n,c){"+
				"var m=document.querySelector('meta[name=\"'+n+'\"]');"+
				"if(!m){m=document.createElement('meta');m.name=n;document.head.appendChild(m);}"+
				"m.content=c;})("+jsString(name)+","+jsString(content)+");")
		}

		head.mu.Lock()
		if head.meta == nil {
			head.meta = make(map[string]string, 2)
		}
		head.meta[name] = content
		head.mu.Unlock()
		return nil
	})
}

func (h *headState) apply(page []byte) []byte {
	h.mu.Lock()
	title := h.defaults.Title
	if h.title != "" {
		title = h.title
	}
	meta := make(map[string]string, len(h.defaults.Meta)+len(h.meta))
	for name, content := range h.defaults.Meta {
		meta[name] = content
	}
	for name, content := range h.meta {
		meta[name] = content
	}
	h.mu.Unlock()

	return bytes.Replace(page, []byte(headMarker), renderHeadTags(title, meta), 1)
}

func renderHeadTags(title string, meta map[string]string) []byte {
	var out bytes.Buffer
	if title != "" {
		out.WriteString("<title>" + templ.EscapeString(title) + "</title>")
	}

	names := make([]string, 0, len(meta))
	for name := range meta {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.WriteString(`<meta name="` + templ.EscapeString(name) + `" content="` + templ.EscapeString(meta[name]) + `">`)
	}

	return out.Bytes()
}

func writeHeadScript(w io.Writer, script string) error {
	_, err := io.WriteString(w, "<script>"+script+"</script>")
	return err
}

// jsString encodes value as a JavaScript string literal. encoding/json
// escapes <, > and &, so the result is safe inside a script element.
func jsString(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(encoded)
}

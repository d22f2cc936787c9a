package markdown

import (
	"net/url"
	"strings"

	"github.com/gomarkdown/markdown/ast"
)

func rewriteLinks(doc ast.Node, rootURL string) {
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		link, ok := node.(*ast.Link)
		if !entering || !ok {
			return ast.GoToNext
		}

		href := string(link.Destination)
		if local, ok := siteRelative(href, rootURL); ok {
			link.Destination = []byte(local)
			return ast.GoToNext
		}
		if isExternal(href) {
			link.AdditionalAttributes = append(
				withoutAttrs(link.AdditionalAttributes, "target=", "rel="),
				`target="_blank"`,
				`rel="noopener noreferrer"`,
			)
		}
		return ast.GoToNext
	})
}

func siteRelative(href string, rootURL string) (string, bool) {
	if rootURL == "" {
		return "", false
	}
	if href != rootURL && !strings.HasPrefix(href, rootURL+"/") &&
		!strings.HasPrefix(href, rootURL+"?") && !strings.HasPrefix(href, rootURL+"#") {
		return "", false
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	local := parsed.EscapedPath()
	if local == "" {
		local = "/"
	}
	if parsed.RawQuery != "" {
		local += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		local += "#" + parsed.EscapedFragment()
	}
	return local, true
}

func isExternal(href string) bool {
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func withoutAttrs(attrs []string, prefixes ...string) []string {
	kept := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		normalized := strings.ToLower(strings.TrimSpace(attr))
		drop := false
		for _, prefix := range prefixes {
			if strings.HasPrefix(normalized, prefix) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, attr)
		}
	}
	return kept
}

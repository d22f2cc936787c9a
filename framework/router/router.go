package router

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var paramNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

type segment struct {
	name    string
	isParam bool
}

// PatternKey normalizes a route pattern such as /post/{id} into its shape
// (/post/:), so two patterns that would match the same paths compare equal.
func PatternKey(pattern string) (string, error) {
	segments, err := parsePattern(pattern)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.isParam {
			parts = append(parts, ":")
			continue
		}
		parts = append(parts, seg.name)
	}

	return "/" + strings.Join(parts, "/"), nil
}

// Expand fills the parameters of pattern. Values are path-escaped; missing
// parameters leave an empty segment.
func Expand(pattern string, params map[string]string) string {
	segments, err := parsePattern(pattern)
	if err != nil {
		return pattern
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.isParam {
			parts = append(parts, url.PathEscape(params[seg.name]))
			continue
		}
		parts = append(parts, seg.name)
	}

	return "/" + strings.Join(parts, "/")
}

// Join appends a static suffix to pattern, keeping a single slash between
// them.
func Join(pattern string, suffix string) string {
	suffix = strings.Trim(strings.TrimSpace(suffix), "/")
	base := strings.TrimRight(strings.TrimSpace(pattern), "/")
	if suffix == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	return base + "/" + suffix
}

func parsePattern(pattern string) ([]segment, error) {
	pattern = strings.TrimSpace(pattern)
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("route pattern %q must start with /", pattern)
	}

	cleaned := path.Clean(pattern)
	if cleaned == "/" {
		return []segment{}, nil
	}

	parts := strings.Split(strings.Trim(cleaned, "/"), "/")
	segments := make([]segment, 0, len(parts))
	seen := make(map[string]struct{}, 1)
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("route pattern %q: %w", pattern, err)
		}
		if seg.isParam {
			if _, ok := seen[seg.name]; ok {
				return nil, fmt.Errorf("route pattern %q repeats parameter %q", pattern, seg.name)
			}
			seen[seg.name] = struct{}{}
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

func parseSegment(part string) (segment, error) {
	if strings.HasPrefix(part, "{") || strings.HasSuffix(part, "}") {
		if !strings.HasPrefix(part, "{") || !strings.HasSuffix(part, "}") {
			return segment{}, fmt.Errorf("invalid parameter segment %q", part)
		}

		name := strings.TrimSpace(part[1 : len(part)-1])
		if !paramNamePattern.MatchString(name) {
			return segment{}, fmt.Errorf("invalid parameter name %q", name)
		}
		return segment{name: name, isParam: true}, nil
	}

	if strings.ContainsAny(part, "{}*") {
		return segment{}, fmt.Errorf("invalid static segment %q", part)
	}
	if strings.TrimSpace(part) == "" {
		return segment{}, errors.New("empty path segment")
	}

	return segment{name: part}, nil
}

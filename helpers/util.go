package helpers

import (
	"net/url"
	"strings"
)

// ResolveURL joins a host prefix with a page-relative path. Paths that are
// already absolute URLs are returned unchanged.
func ResolveURL(host, path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(host, "/") + path
}

// LastPathSegment returns the final non-empty segment of a URL path,
// ignoring any query string or fragment.
func LastPathSegment(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	parts := strings.Split(strings.TrimSuffix(link, "/"), "/")
	return parts[len(parts)-1]
}

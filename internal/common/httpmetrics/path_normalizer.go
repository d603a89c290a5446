package httpmetrics

import (
	"strings"
)

// Routes whose trailing segment is an ISBN. Collapsing it keeps label
// cardinality bounded by the route table rather than the catalog.
var parameterizedPrefixes = []string{"/book/", "/api/"}

func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	for _, prefix := range parameterizedPrefixes {
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
			return prefix + "{isbn}"
		}
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isNumeric(part) {
			parts[i] = "{param}"
		}
	}

	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

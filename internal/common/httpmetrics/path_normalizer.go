package httpmetrics

import "strings"

// NormalizePath collapses variable path segments (board names, numeric ids)
// so metric label cardinality stays bounded.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isNumeric(part) {
			parts[i] = "{id}"
		}
	}

	// POST /api/whiteboards/{name} carries a free-form name segment.
	if len(parts) >= 4 && parts[1] == "api" && parts[2] == "whiteboards" && parts[3] != "" && parts[3] != "{id}" {
		parts[3] = "{name}"
	}

	result := strings.Join(parts, "/")
	if result == "" {
		return "/"
	}

	return result
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

// Package normalize trims and canonicalises values taken from forms and
// query strings before they are validated or stored.
package normalize

import (
	"strings"
)

// Username trims surrounding whitespace and collapses internal runs of
// whitespace to a single space.
func Username(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Status lowercases and trims a status value. It does not validate it.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SortDir returns "asc" or "desc" for a recognised direction and "" otherwise.
func SortDir(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return "asc"
	case "desc", "descending":
		return "desc"
	}
	return ""
}

// QueryParam trims a raw query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

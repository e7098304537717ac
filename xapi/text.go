package xapi

import "strings"

// ExpandURLs replaces t.co links in text with their expanded destinations.
// The short URL is matched as a literal substring. Entities missing either
// side are skipped. With no usable entities the text comes back untouched.
func ExpandURLs(text string, entities []URLEntity) string {
	if len(entities) == 0 {
		return text
	}
	expanded := text
	for _, entity := range entities {
		if entity.URL == "" || entity.ExpandedURL == "" {
			continue
		}
		expanded = strings.ReplaceAll(expanded, entity.URL, entity.ExpandedURL)
	}
	return expanded
}

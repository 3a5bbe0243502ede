package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the decode/strip loop for nested entity encodings.
const maxSanitizePasses = 5

// sanitizeText strips markup from free text supplied by customers and admins.
// Entities are decoded before stripping so encoded tags cannot survive as markup.
func sanitizeText(s string) string {
	if s == "" {
		return ""
	}
	out := s
	for range maxSanitizePasses {
		next := html.UnescapeString(textPolicy.Sanitize(html.UnescapeString(out)))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

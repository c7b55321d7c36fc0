package validation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// SanitizeText strips all markup from user supplied text and trims it.
// Entities escaped by the policy are decoded again so "&" stays "&".
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(input)))
}

// SanitizeOptional sanitizes a nullable field, mapping blank results to nil.
func SanitizeOptional(input *string) *string {
	if input == nil {
		return nil
	}

	clean := SanitizeText(*input)
	if clean == "" {
		return nil
	}
	return &clean
}

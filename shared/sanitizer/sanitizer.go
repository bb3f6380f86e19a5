// Package sanitizer strips markup from user supplied free text before it is stored.
package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes every HTML element and returns the remaining plain text.
// Entities escaped by the policy are decoded again so that "a & b" survives unchanged.
func Text(value string) string {
	if value == "" {
		return value
	}

	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(value)))
}

// Ptr applies Text to an optional value.
func Ptr(value *string) *string {
	if value == nil {
		return nil
	}

	cleaned := Text(*value)

	return &cleaned
}

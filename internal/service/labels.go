package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalizeLabels prepares a user-supplied label set for storage: trims
// whitespace, drops empties, capitalizes the first rune and removes
// case-insensitive duplicates while preserving order.
func normalizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = capitalizeLabel(label)
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	return out
}

// capitalizeLabel trims the label and upper-cases its first rune, leaving
// the rest untouched.
func capitalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

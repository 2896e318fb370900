package model

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// strips spaces and composes unicode so lookups match what was stored
func CleanupTitle(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeTags lowercases, trims and de-duplicates tags, sorted.
func NormalizeTags(tags []string) []string {
	lower := cases.Lower(language.Und)
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag := lower.String(norm.NFC.String(strings.TrimSpace(raw)))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

package usecase

import "strings"

// NormalizeWebsite returns the dedup key for a website: trimmed and
// lower-cased, empty for blank input.
func NormalizeWebsite(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeWebsites normalizes every entry, drops empties and keeps the first
// occurrence of each key in input order.
func NormalizeWebsites(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		key := NormalizeWebsite(r)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

package utils

import "strings"

// NormalizeList trims entries, drops empty ones and removes duplicates while keeping order.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// OrEmpty never returns a nil slice, so JSON encodes [] instead of null.
func OrEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

package domain

import (
	"strings"
	"time"
)

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TagCount is how many of a user's entries carry a tag.
type TagCount struct {
	Name  string
	Count int64
}

// TagWeight is a tag scaled for display in a cloud.
type TagWeight struct {
	Name     string  `json:"name"`
	Count    int64   `json:"count"`
	Ratio    float64 `json:"ratio"`
	Size     float64 `json:"size"`
	FontSize string  `json:"font_size"`
	Color    string  `json:"color"`
}

// SplitTags breaks a comma separated list into normalized tag names.
func SplitTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}

// NormalizeTags trims and lower-cases names, dropping empties and repeats.
// First-seen order is kept.
func NormalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

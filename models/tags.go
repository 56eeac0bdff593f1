package models

import "strings"

// ParseTags splits a comma-joined tag string, trims each token, drops empty
// tokens and duplicates. First-occurrence order is kept, so
// ParseTags(JoinTags(ParseTags(s))) == ParseTags(s).
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// NormalizeTags is the canonical stored form of a tag string.
func NormalizeTags(s string) string {
	return JoinTags(ParseTags(s))
}

func HasTag(s, tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range ParseTags(s) {
		if t == tag {
			return true
		}
	}
	return false
}

// RemoveTag returns the normalized tag string without tag.
func RemoveTag(s, tag string) string {
	tag = strings.TrimSpace(tag)
	var kept []string
	for _, t := range ParseTags(s) {
		if t != tag {
			kept = append(kept, t)
		}
	}
	return JoinTags(kept)
}

// TagCount is one entry of the tag index shown in the filter bar.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

package application

import "github.com/oksasatya/go-blog-publisher/pkg/tags"

// SplitTags turns the comma-separated display form into a normalised list.
func SplitTags(s string) []string { return tags.Split(s) }

// NormalizeTags trims, drops empty entries and repeats. Never nil.
func NormalizeTags(in []string) []string { return tags.Normalize(in) }

func validateTags(list []string, verr *ValidationError) {
	if err := tags.Check(list); err != nil {
		verr.add("tags", err.Error())
	}
}

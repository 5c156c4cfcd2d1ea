// Package tags normalises and checks blog tags. The API and the editor both
// use it so a draft is rejected locally for the same reasons the server
// would reject it.
package tags

import (
	"errors"
	"strings"
)

const (
	MaxCount  = 20
	MaxLength = 64
)

var (
	ErrTooMany = errors.New("must contain at most 20 tags")
	ErrTooLong = errors.New("each tag must be at most 64 characters long")
)

// Split turns the comma-separated display form into a normalised list.
func Split(s string) []string {
	return Normalize(strings.Split(s, ","))
}

// Normalize trims every entry and drops empty ones and repeats, keeping the
// first occurrence order. The result is never nil.
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Check enforces the count and length limits on a normalised list.
func Check(list []string) error {
	if len(list) > MaxCount {
		return ErrTooMany
	}
	for _, t := range list {
		if len([]rune(t)) > MaxLength {
			return ErrTooLong
		}
	}
	return nil
}

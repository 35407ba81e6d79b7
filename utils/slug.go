package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Slugify turns a free-text player name into a URL-safe slug.
func Slugify(name string) string {
	return slug.Make(name)
}

// SlugWithSuffix appends a numeric suffix for collision fallback.
func SlugWithSuffix(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}

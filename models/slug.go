package models

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^\w-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slug is the URL-friendly form of a question title.
type Slug struct {
	value string
}

// NewSlug wraps a value that is already a slug.
func NewSlug(value string) Slug { return Slug{value: value} }

// SlugFromText normalizes free text into a slug:
// "An Example Test" becomes "an-example-test".
func SlugFromText(text string) Slug {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	s, _, err := transform.String(fold, text)
	if err != nil {
		s = text
	}
	s = strings.TrimSpace(strings.ToLower(s))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "_", "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.TrimSuffix(s, "-")
	return Slug{value: s}
}

func (s Slug) Value() string  { return s.value }
func (s Slug) String() string { return s.value }
func (s Slug) IsZero() bool   { return s.value == "" }

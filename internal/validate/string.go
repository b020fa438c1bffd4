// Package validate provides input validation for user-supplied profile
// fields. Parameterized queries are the primary injection defense; this
// layer keeps garbage out of the scoring pipeline, where category and
// hashtag strings are matched verbatim.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// String validation errors.
var (
	ErrEmpty             = errors.New("string is empty")
	ErrStringTooLong     = errors.New("string is too long")
	ErrInvalidCharacters = errors.New("string contains invalid characters")
	ErrTooManyValues     = errors.New("too many values")
)

// Limits on profile taste fields.
const (
	MaxCategoryLength = 64
	MaxHashtagLength  = 64
	MaxCategories     = 20
	MaxHashtags       = 50
)

// categoryPattern matches lowercase category slugs like "fashion" or
// "home-decor".
var categoryPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// hashtagPattern matches the tag body after the optional leading '#'.
var hashtagPattern = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)

// StringConstraints defines validation constraints for a single string.
type StringConstraints struct {
	MaxLength      int
	AllowedPattern *regexp.Regexp
	Lowercase      bool
	TrimSpace      bool
}

// String validates s against the given constraints and returns the
// normalized value.
func String(s string, constraints StringConstraints) (string, error) {
	if constraints.TrimSpace {
		s = strings.TrimSpace(s)
	}
	if constraints.Lowercase {
		s = strings.ToLower(s)
	}
	if s == "" {
		return "", ErrEmpty
	}
	if constraints.MaxLength > 0 && utf8.RuneCountInString(s) > constraints.MaxLength {
		return "", fmt.Errorf("%w: maximum %d characters", ErrStringTooLong, constraints.MaxLength)
	}
	if constraints.AllowedPattern != nil && !constraints.AllowedPattern.MatchString(s) {
		return "", ErrInvalidCharacters
	}
	return s, nil
}

// Category validates and normalizes a single interest category.
func Category(s string) (string, error) {
	return String(s, StringConstraints{
		MaxLength:      MaxCategoryLength,
		AllowedPattern: categoryPattern,
		Lowercase:      true,
		TrimSpace:      true,
	})
}

// Hashtag validates and normalizes a single hashtag, stripping the
// leading '#' if present.
func Hashtag(s string) (string, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	return String(s, StringConstraints{
		MaxLength:      MaxHashtagLength,
		AllowedPattern: hashtagPattern,
		Lowercase:      true,
	})
}

// Categories validates a list of interest categories, rejecting lists
// over MaxCategories and deduplicating while preserving order.
func Categories(values []string) ([]string, error) {
	return normalizeList(values, MaxCategories, Category)
}

// Hashtags validates a list of hashtags, rejecting lists over MaxHashtags
// and deduplicating while preserving order.
func Hashtags(values []string) ([]string, error) {
	return normalizeList(values, MaxHashtags, Hashtag)
}

func normalizeList(values []string, max int, fn func(string) (string, error)) ([]string, error) {
	if len(values) > max {
		return nil, fmt.Errorf("%w: maximum %d", ErrTooManyValues, max)
	}
	if len(values) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		normalized, err := fn(v)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", v, err)
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out, nil
}

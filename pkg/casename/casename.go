// Package casename derives human-readable case titles from opinion URLs.
//
// An opinion URL carries the case name as a hyphenated slug right after the
// numeric opinion identifier:
//
//	https://www.courtlistener.com/opinion/4567890/smith-v-jones/
//
// Parse splits the reference into its parts and reports ErrUnparsableReference
// when the layout does not match. Extract wraps Parse and falls back to
// Unknown, so it can be called on arbitrary dataset cells.
package casename

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Unknown is the display name used when no name can be derived.
const Unknown = "Unknown Case"

const opinionSegment = "opinion"

// ErrUnparsableReference is returned by Parse when the input does not contain
// an /opinion/<digits>/<slug>/ path.
var ErrUnparsableReference = errors.New("casename: unparsable opinion reference")

// Reference is a successfully parsed opinion URL.
type Reference struct {
	OpinionID string   // numeric identifier segment, as written
	Slug      string   // raw slug segment
	Tokens    []string // non-empty hyphen-separated slug tokens
}

// Name returns the display title for the reference.
func (r Reference) Name() string {
	words := make([]string, len(r.Tokens))
	for i, tok := range r.Tokens {
		words[i] = titleWord(tok)
	}
	// "v" is the versus abbreviation in captions; only interior tokens have a
	// space on both sides once joined.
	for i := 1; i < len(words)-1; i++ {
		if words[i] == "V" {
			words[i] = "Vs"
		}
	}
	return strings.Join(words, " ")
}

// Parse locates the first /opinion/<digits>/<slug>/ path in ref.
func Parse(ref string) (Reference, error) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}

	segments := strings.Split(ref, "/")
	// segments[i] needs a slash before it, and the slug needs one after it.
	for i := 1; i+3 < len(segments); i++ {
		if segments[i] != opinionSegment || !isDigits(segments[i+1]) {
			continue
		}

		slug := segments[i+2]
		tokens := splitSlug(slug)
		if len(tokens) == 0 {
			return Reference{}, ErrUnparsableReference
		}
		return Reference{
			OpinionID: segments[i+1],
			Slug:      slug,
			Tokens:    tokens,
		}, nil
	}

	return Reference{}, ErrUnparsableReference
}

// Extract returns the case title for ref, or Unknown when ref cannot be parsed.
func Extract(ref string) string {
	parsed, err := Parse(ref)
	if err != nil {
		return Unknown
	}
	return parsed.Name()
}

// TitleWords title-cases every whitespace-separated word of s and joins them
// with single spaces.
func TitleWords(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = titleWord(f)
	}
	return strings.Join(fields, " ")
}

func splitSlug(slug string) []string {
	parts := strings.Split(slug, "-")
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func titleWord(word string) string {
	lower := strings.ToLower(word)
	first, size := utf8.DecodeRuneInString(lower)
	if first == utf8.RuneError && size <= 1 {
		return lower
	}
	return string(unicode.ToTitle(first)) + lower[size:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

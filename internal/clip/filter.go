package clip

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// ErrInvalidFilter is returned when filter criteria cannot describe a search.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter is the validated search criteria for one search operation.
// Build it with NewFilter; the search engine never mutates it.
type Filter struct {
	TimeWindow time.Duration
	Categories []string
	Channels   []string
	Languages  []string
	MaxResults int
}

// NewFilter validates raw criteria and returns a Filter.
// Names are trimmed and deduplicated (case-insensitive, first spelling kept),
// language codes are canonicalised to lowercase BCP 47 where possible.
func NewFilter(window time.Duration, categories, channels, languages []string, maxResults int) (Filter, error) {
	if window <= 0 {
		return Filter{}, fmt.Errorf("%w: time window must be positive, got %s", ErrInvalidFilter, window)
	}
	if maxResults < 0 {
		return Filter{}, fmt.Errorf("%w: max results must be >= 0, got %d", ErrInvalidFilter, maxResults)
	}

	langs := uniqueNames(languages)
	for i, l := range langs {
		langs[i] = canonicalLanguage(l)
	}

	return Filter{
		TimeWindow: window,
		Categories: uniqueNames(categories),
		Channels:   uniqueNames(channels),
		Languages:  uniqueNames(langs),
		MaxResults: maxResults,
	}, nil
}

// AllowsLanguage reports whether a clip in lang passes the language filter.
func (f Filter) AllowsLanguage(lang string) bool {
	return MatchesLanguage(f.Languages, lang)
}

// MatchesLanguage reports whether lang is in languages. An empty set allows everything.
func MatchesLanguage(languages []string, lang string) bool {
	if len(languages) == 0 {
		return true
	}
	for _, l := range languages {
		if l == lang {
			return true
		}
	}
	return false
}

func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// canonicalLanguage maps "EN", "en_us" or "zh-HK" to the lowercase form the
// platform reports. Codes the parser rejects (e.g. "other") are only lowercased.
func canonicalLanguage(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	return strings.ToLower(tag.String())
}

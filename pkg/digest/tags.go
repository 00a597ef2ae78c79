package digest

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minTagLength = 4

var stopWords = map[string]struct{}{
	"this":  {},
	"that":  {},
	"with":  {},
	"from":  {},
	"have":  {},
	"there": {},
	"their": {},
	"about": {},
}

// IsStopWord reports whether word is excluded from tag candidacy.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// Tokenize lowercases text, turns every rune that is not a letter, digit, underscore
// or whitespace into a boundary, and splits on whitespace.
func Tokenize(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Fields(normalized)
}

type tagCandidate struct {
	word  string
	count int
	first int
}

// Tags ranks the qualifying tokens of text by descending frequency and returns the
// first limit of them. Equal frequencies keep first-occurrence order.
// The result is never nil.
func Tags(text string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	index := make(map[string]int)
	candidates := make([]tagCandidate, 0)
	for _, token := range Tokenize(text) {
		if utf8.RuneCountInString(token) < minTagLength || IsStopWord(token) {
			continue
		}
		if i, ok := index[token]; ok {
			candidates[i].count++
			continue
		}
		index[token] = len(candidates)
		candidates = append(candidates, tagCandidate{word: token, count: 1, first: len(candidates)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].first < candidates[j].first
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	tags := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tags = append(tags, c.word)
	}
	return tags
}

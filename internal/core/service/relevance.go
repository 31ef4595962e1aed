package service

import (
	"sort"
	"strings"
	"unicode"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

const (
	// maxMatches bounds prompt size; only the strongest documents are kept.
	maxMatches = 3
	// nameWeight favours documents whose filename mentions the keyword.
	nameWeight    = 3.0
	contentWeight = 1.0
	minTokenLen   = 3
)

// stopWords are query tokens that carry no topical signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "about": {},
	"what": {}, "how": {}, "can": {}, "you": {}, "are": {},
	"does": {}, "get": {}, "have": {}, "our": {}, "any": {},
}

// RelevanceFilter scores documents against a query by keyword overlap.
// Rare keywords weigh more than ones present in most of the corpus; the
// exact weights only need to be monotonic in overlap.
type RelevanceFilter struct{}

func NewRelevanceFilter() *RelevanceFilter {
	return &RelevanceFilter{}
}

var _ ports.RelevanceSelector = (*RelevanceFilter)(nil)

// Select returns at most maxMatches documents sharing at least one keyword
// with the query, most relevant first. Ties preserve enumeration order.
func (f *RelevanceFilter) Select(query string, documents []domain.Document) []domain.RelevanceMatch {
	keywords := Tokenize(query)
	if len(keywords) == 0 || len(documents) == 0 {
		return nil
	}

	type docView struct {
		doc  domain.Document
		name map[string]struct{}
		text map[string]struct{}
	}
	views := make([]docView, len(documents))
	for i, d := range documents {
		views[i] = docView{
			doc:  d,
			name: wordSet(strings.ReplaceAll(d.Name, "_", " ")),
			text: wordSet(d.RawText),
		}
	}

	// Document frequency per keyword, for the rarity factor.
	df := make(map[string]int, len(keywords))
	for _, kw := range keywords {
		for _, v := range views {
			_, inName := v.name[kw]
			_, inText := v.text[kw]
			if inName || inText {
				df[kw]++
			}
		}
	}

	n := float64(len(documents))
	matches := make([]domain.RelevanceMatch, 0, len(documents))
	for _, v := range views {
		var score float64
		var terms []string
		for _, kw := range keywords {
			_, inName := v.name[kw]
			_, inText := v.text[kw]
			if !inName && !inText {
				continue
			}
			weight := contentWeight
			if inName {
				weight = nameWeight
			}
			rarity := 1 + (n-float64(df[kw]))/n
			score += weight * rarity
			terms = append(terms, kw)
		}
		if len(terms) == 0 {
			continue
		}
		matches = append(matches, domain.RelevanceMatch{
			Document:     v.doc,
			Score:        score,
			MatchedTerms: terms,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return matches
}

// wordSet lowercases s and splits it into its alphanumeric words. Keywords
// match whole words only, never substrings of a longer word.
func wordSet(s string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	words := make(map[string]struct{})
	for _, w := range strings.Fields(cleaned) {
		words[w] = struct{}{}
	}
	return words
}

// Tokenize lowercases the query, strips punctuation, and drops stop-words
// and tokens shorter than minTokenLen. Duplicates are collapsed, first
// occurrence order preserved.
func Tokenize(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, query)

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < minTokenLen {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

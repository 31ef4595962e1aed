package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var ErrDocumentNotFound = errors.New("document not found")

// Document is the extracted text of one file in the documents directory.
// Derived fresh from the filesystem per request — content always reflects
// the directory at query time.
type Document struct {
	Name       string    `json:"name"`
	Path       string    `json:"-"`
	RawText    string    `json:"raw_text,omitempty"`
	ByteSize   int64     `json:"byte_size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// DocumentInfo is the listing view of a document, without its body.
type DocumentInfo struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Type        string    `json:"type"`
	SizeKB      float64   `json:"size_kb"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// DisplayName renders a document key for humans: "pto_policy" → "Pto Policy".
func DisplayName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// RelevanceMatch is a document judged topically related to a query.
// Ephemeral, computed per query; the score is used only for ranking.
type RelevanceMatch struct {
	Document     Document
	Score        float64
	MatchedTerms []string
}

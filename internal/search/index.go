// Package search provides the in-memory token index and the phrase
// query evaluator over canonical conversations. The index lives only
// for the session and is rebuilt wholesale after every ingestion.
package search

import (
	"regexp"
	"strings"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

var (
	tokenStripRe = regexp.MustCompile(`[^\w\s-]`)
	wordRunRe    = regexp.MustCompile(`^[\w-]+$`)
)

// Tokenize lowercases, strips characters outside word chars, hyphen,
// and whitespace, and splits on whitespace. Short tokens survive only
// when they contain a digit, so "42" and "gpt-4" stay indexable.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := tokenStripRe.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, tok := range fields {
		if indexable(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func indexable(token string) bool {
	return len(token) > 2 || containsDigit(token)
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// Index maps normalized tokens to the positions (within the indexed
// conversation slice) of conversations containing them in the title
// or any message text.
type Index struct {
	postings map[string][]int
}

// Build constructs the index over the full conversation list. It is
// never updated incrementally.
func Build(conversations []parse.Conversation) *Index {
	ix := &Index{postings: make(map[string][]int)}
	for pos, conv := range conversations {
		tokens := make(map[string]struct{})
		for _, tok := range Tokenize(conv.Title) {
			tokens[tok] = struct{}{}
		}
		for _, msg := range conv.Messages {
			for _, tok := range Tokenize(msg.Text) {
				tokens[tok] = struct{}{}
			}
		}
		for tok := range tokens {
			ix.postings[tok] = append(ix.postings[tok], pos)
		}
	}
	return ix
}

// TokenCount reports the vocabulary size.
func (ix *Index) TokenCount() int {
	return len(ix.postings)
}

// Positions returns the conversation positions for an exact token.
func (ix *Index) Positions(token string) []int {
	return ix.postings[token]
}

// narrowable reports whether a phrase may consult the index without
// changing substring-match semantics. Tokenization splits only at
// whitespace and stripped punctuation, so a phrase made purely of
// word chars and hyphens always falls inside a single token, and one
// of indexable size can only occur inside indexable tokens.
func narrowable(phrase string) bool {
	return wordRunRe.MatchString(phrase) && indexable(phrase)
}

// candidates intersects, across all narrowable phrases, the union of
// postings of tokens containing each phrase. ok is false when no
// phrase can narrow, in which case the caller scans everything.
func (ix *Index) candidates(phrases []string) (map[int]struct{}, bool) {
	var result map[int]struct{}
	narrowed := false

	for _, phrase := range phrases {
		if !narrowable(phrase) {
			continue
		}
		matches := make(map[int]struct{})
		for tok, positions := range ix.postings {
			if strings.Contains(tok, phrase) {
				for _, pos := range positions {
					matches[pos] = struct{}{}
				}
			}
		}
		if !narrowed {
			result = matches
			narrowed = true
			continue
		}
		for pos := range result {
			if _, ok := matches[pos]; !ok {
				delete(result, pos)
			}
		}
	}

	return result, narrowed
}

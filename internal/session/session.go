// Package session owns all mutable state for one ingestion-and-search
// run: the merged conversation list, the merge engine, the token
// index, active filter phrases, and the selection set. Nothing here is
// process-global; independent sessions never interfere.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/archive"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/merge"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/search"
)

// ParseResult is returned by the ingestion entry points: the full
// merged set, global stats over it, and its identity hash.
type ParseResult struct {
	Conversations []parse.Conversation
	Stats         merge.GlobalStats
	Hash          string
	Format        parse.Format
	Removed       int
}

// Session is single-goroutine: at most one ingestion runs at a time,
// and searches are not concurrent with it.
type Session struct {
	log    *logrus.Entry
	engine *merge.Engine
	now    func() time.Time

	conversations []parse.Conversation
	stats         merge.GlobalStats
	hash          string
	index         *search.Index

	filters   []string
	selection map[string]struct{}
	results   []search.Result
}

type Option func(*Session)

// WithLogger routes pipeline diagnostics to a specific logger entry.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Session) { s.log = log }
}

// WithClock fixes the time source used by date-range filters.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(opts ...Option) *Session {
	s := &Session{
		engine:    merge.NewEngine(),
		now:       time.Now,
		selection: make(map[string]struct{}),
		log:       logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseFile ingests one export file and merges it into the session.
func (s *Session) ParseFile(path string) (*ParseResult, error) {
	raw, err := archive.Load(path)
	if err != nil {
		return nil, err
	}
	return s.ParseData(path, raw)
}

// ParseData ingests one raw export document. On any failure the
// session keeps its previous conversations, stats, and index; state
// is replaced only after the whole pipeline succeeds.
func (s *Session) ParseData(name string, raw []byte) (*ParseResult, error) {
	batch, format, err := parse.NormalizeAll(raw, s.log.WithField("file", name))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	merged, removed := s.engine.Merge(s.conversations, batch)

	hash, err := merge.Hash(merged)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", name, err)
	}
	stats := merge.ComputeGlobalStats(merged, hash)

	s.conversations = merged
	s.stats = stats
	s.hash = hash
	s.index = search.Build(merged)
	s.results = nil

	s.log.WithFields(logrus.Fields{
		"file":          name,
		"format":        format,
		"conversations": len(merged),
		"duplicates":    removed,
		"hash":          hash,
	}).Info("merged export file")

	return &ParseResult{
		Conversations: merged,
		Stats:         stats,
		Hash:          hash,
		Format:        format,
		Removed:       removed,
	}, nil
}

// IngestAll processes files strictly sequentially: each file's merge
// completes before the next file starts, and the first fatal file
// error halts the remaining files. Conversations merged from earlier
// files stay merged. The returned result carries the final merged
// state and the duplicate count summed over all files.
func (s *Session) IngestAll(paths []string) (*ParseResult, error) {
	var last *ParseResult
	removed := 0
	for _, path := range paths {
		result, err := s.ParseFile(path)
		if err != nil {
			return last, fmt.Errorf("ingest %s: %w", path, err)
		}
		removed += result.Removed
		last = result
	}
	if last == nil {
		return nil, fmt.Errorf("no input files")
	}
	last.Removed = removed
	return last, nil
}

// Conversations returns the merged set. Callers must not mutate it.
func (s *Session) Conversations() []parse.Conversation {
	return s.conversations
}

func (s *Session) Stats() merge.GlobalStats {
	return s.stats
}

func (s *Session) Hash() string {
	return s.hash
}

// Search evaluates a raw query string (or, when empty, the active
// filter phrases) against the merged set. Starting a new search
// clears the selection.
func (s *Session) Search(query string, date search.DateFilter) []search.Result {
	phrases := search.ParseQuery(query)
	if len(phrases) == 0 {
		phrases = s.lowercasedFilters()
	}
	return s.searchPhrases(phrases, date)
}

// SearchFilters evaluates the active filter phrases.
func (s *Session) SearchFilters(date search.DateFilter) []search.Result {
	return s.searchPhrases(s.lowercasedFilters(), date)
}

func (s *Session) searchPhrases(phrases []string, date search.DateFilter) []search.Result {
	s.ClearSelections()
	s.results = search.Eval(s.conversations, s.index, phrases, date, s.now())
	return s.results
}

// Results returns the last search's ranked results.
func (s *Session) Results() []search.Result {
	return s.results
}

func (s *Session) lowercasedFilters() []string {
	phrases := make([]string, 0, len(s.filters))
	for _, f := range s.filters {
		phrases = append(phrases, strings.ToLower(f))
	}
	return phrases
}

// AddFilter appends a filter phrase, preserving insertion order and
// suppressing case-insensitive duplicates. Reports whether the phrase
// was added.
func (s *Session) AddFilter(phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return false
	}
	for _, f := range s.filters {
		if strings.EqualFold(f, phrase) {
			return false
		}
	}
	s.filters = append(s.filters, phrase)
	return true
}

// RemoveFilter deletes a phrase, reporting whether it was present.
func (s *Session) RemoveFilter(phrase string) bool {
	for i, f := range s.filters {
		if f == phrase {
			s.filters = append(s.filters[:i], s.filters[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Session) ClearFilters() {
	s.filters = nil
}

// Filters returns a copy of the active filter phrases in insertion
// order.
func (s *Session) Filters() []string {
	out := make([]string, len(s.filters))
	copy(out, s.filters)
	return out
}

// ToggleSelection flips a conversation's membership in the selection
// set and reports the new state.
func (s *Session) ToggleSelection(id string) bool {
	if _, ok := s.selection[id]; ok {
		delete(s.selection, id)
		return false
	}
	s.selection[id] = struct{}{}
	return true
}

func (s *Session) ClearSelections() {
	s.selection = make(map[string]struct{})
}

// SetSelections replaces the selection with an external ID list.
func (s *Session) SetSelections(ids []string) {
	s.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			s.selection[id] = struct{}{}
		}
	}
}

func (s *Session) SelectionCount() int {
	return len(s.selection)
}

// IsSelected reports membership in the selection set.
func (s *Session) IsSelected(id string) bool {
	_, ok := s.selection[id]
	return ok
}

// SelectedConversations resolves the selection against the merged
// set, in merged-set order. IDs that resolve to nothing are skipped.
func (s *Session) SelectedConversations() []parse.Conversation {
	var out []parse.Conversation
	for _, conv := range s.conversations {
		if _, ok := s.selection[conv.ID]; ok {
			out = append(out, conv)
		}
	}
	return out
}

// ConversationByID returns the conversation with the given ID, or nil.
func (s *Session) ConversationByID(id string) *parse.Conversation {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return &s.conversations[i]
		}
	}
	return nil
}

// Snippet returns a highlighted excerpt for a conversation using the
// active filter phrases.
func (s *Session) Snippet(conv parse.Conversation) string {
	return search.Snippet(conv, s.lowercasedFilters())
}

// QA partitions the merged set into Q&A pairs and longer threads.
func (s *Session) QA() ([]parse.QAPair, []parse.Conversation) {
	return parse.DetectQA(s.conversations)
}

package search

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

// DateFilter restricts matches by conversation creation time.
type DateFilter string

const (
	DateAll     DateFilter = "all"
	DateDays30  DateFilter = "30"
	DateDays90  DateFilter = "90"
	DateDays365 DateFilter = "365"
)

func (f DateFilter) maxAgeDays() (float64, bool) {
	switch f {
	case DateDays30:
		return 30, true
	case DateDays90:
		return 90, true
	case DateDays365:
		return 365, true
	default:
		return 0, false
	}
}

// Scoring weights: a phrase found in the title outweighs one found in
// a message body; only the first matching message counts per phrase.
const (
	titleScore   = 3
	messageScore = 1
)

var phraseRe = regexp.MustCompile(`"([^"]+)"|(\S+)`)

// ParseQuery splits a raw query string into lowercased filter
// phrases: quoted runs become multi-word phrases, everything else
// single-word tokens.
func ParseQuery(query string) []string {
	if query == "" {
		return nil
	}
	var phrases []string
	for _, m := range phraseRe.FindAllStringSubmatch(query, -1) {
		if m[1] != "" {
			phrases = append(phrases, strings.ToLower(m[1]))
		} else if m[2] != "" {
			phrases = append(phrases, strings.ToLower(m[2]))
		}
	}
	return phrases
}

// ContainsPhrase reports a case-insensitive substring match.
func ContainsPhrase(text, phrase string) bool {
	if text == "" || phrase == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(phrase))
}

// Result pairs a matched conversation with its additive score.
type Result struct {
	Conversation parse.Conversation
	Score        int
}

// Eval returns conversations matching ALL phrases, ranked by
// descending score with encounter order breaking ties. The index, if
// present, narrows the scanned candidate set; scoring always runs the
// substring scan, so ranking is identical with or without it. now
// anchors the date filter.
func Eval(conversations []parse.Conversation, ix *Index, phrases []string, date DateFilter, now time.Time) []Result {
	if len(phrases) == 0 {
		return nil
	}

	positions := allPositions(len(conversations))
	if ix != nil {
		if cand, ok := ix.candidates(phrases); ok {
			positions = sortedPositions(cand)
		}
	}

	maxAge, dateBound := date.maxAgeDays()

	var results []Result
	for _, pos := range positions {
		conv := conversations[pos]

		if dateBound {
			ageDays := now.Sub(conv.CreatedAt).Hours() / 24
			if ageDays > maxAge {
				continue
			}
		}

		score, ok := scoreConversation(conv, phrases)
		if !ok {
			continue
		}
		results = append(results, Result{Conversation: conv, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// scoreConversation applies AND semantics across phrases: +3 for a
// title hit, else +1 for the first message hit; any phrase missing
// everywhere excludes the conversation.
func scoreConversation(conv parse.Conversation, phrases []string) (int, bool) {
	score := 0
	for _, phrase := range phrases {
		if ContainsPhrase(conv.Title, phrase) {
			score += titleScore
			continue
		}
		found := false
		for _, msg := range conv.Messages {
			if ContainsPhrase(msg.Text, phrase) {
				score += messageScore
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return score, true
}

func allPositions(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return positions
}

func sortedPositions(set map[int]struct{}) []int {
	positions := make([]int, 0, len(set))
	for pos := range set {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}

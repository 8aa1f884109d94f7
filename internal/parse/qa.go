package parse

import (
	"regexp"
	"strings"
	"time"
)

// QAPair is a short-form question/answer extracted from a quick
// conversation.
type QAPair struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

var questionTitleRe = regexp.MustCompile(`^(how|what|why|when|where|can|should|is|does)`)

// DetectQA partitions conversations into short-form Q&A pairs and
// longer threads. The heuristic is fixed: at most 6 messages, under
// an hour, and either a question-shaped title or the generic
// "New conversation" title with at most 4 messages.
func DetectQA(conversations []Conversation) (qa []QAPair, threads []Conversation) {
	for _, conv := range conversations {
		if !isQA(conv) {
			threads = append(threads, conv)
			continue
		}
		qa = append(qa, QAPair{
			ID:        conv.ID,
			Title:     conv.Title,
			Question:  firstTextByRole(conv, RoleUser, 200, conv.Title),
			Answer:    firstTextByRole(conv, RoleAssistant, 300, "No answer"),
			CreatedAt: conv.CreatedAt,
		})
	}
	return qa, threads
}

func isQA(conv Conversation) bool {
	if conv.Stats.MessageCount > 6 || conv.Stats.DurationMinutes >= 60 {
		return false
	}
	title := strings.ToLower(conv.Title)
	if strings.Contains(title, "?") {
		return true
	}
	if questionTitleRe.MatchString(title) {
		return true
	}
	return conv.Title == "New conversation" && conv.Stats.MessageCount <= 4
}

func firstTextByRole(conv Conversation, role string, limit int, fallback string) string {
	for _, m := range conv.Messages {
		if m.Role == role {
			return truncateRunes(m.Text, limit)
		}
	}
	return fallback
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

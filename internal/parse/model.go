package parse

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Format identifies which export dialect a file uses.
type Format string

const (
	FormatChatGPT Format = "chatgpt"
	FormatClaude  Format = "claude"
	FormatUnknown Format = "unknown"
)

// Roles kept after normalization. Anything else is dropped.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single normalized chat message. Text is always trimmed
// and non-empty; messages that extract to empty text are never stored.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats are derived per-conversation counters, recomputed from the
// final message list whenever it changes.
type Stats struct {
	MessageCount          int `json:"message_count"`
	UserMessageCount      int `json:"user_message_count"`
	AssistantMessageCount int `json:"assistant_message_count"`
	TotalWords            int `json:"total_words"`
	DurationMinutes       int `json:"duration_minutes"`
}

// Conversation is the canonical normalized conversation shared by the
// merge engine, search layer, and exporters. ID stays empty until the
// merge engine issues one.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
	Stats     Stats     `json:"stats"`
}

// finalize sorts messages chronologically, sets updated_at to the last
// message time (created_at when there are none), and recomputes stats.
func (c *Conversation) finalize() {
	sort.SliceStable(c.Messages, func(i, j int) bool {
		return c.Messages[i].CreatedAt.Before(c.Messages[j].CreatedAt)
	})

	if len(c.Messages) > 0 {
		c.UpdatedAt = c.Messages[len(c.Messages)-1].CreatedAt
	} else {
		c.UpdatedAt = c.CreatedAt
	}

	c.Stats = computeStats(c)
}

func computeStats(c *Conversation) Stats {
	s := Stats{MessageCount: len(c.Messages)}
	for _, m := range c.Messages {
		switch m.Role {
		case RoleUser:
			s.UserMessageCount++
		case RoleAssistant:
			s.AssistantMessageCount++
		}
		s.TotalWords += wordCount(m.Text)
	}
	s.DurationMinutes = int(math.Round(c.UpdatedAt.Sub(c.CreatedAt).Minutes()))
	return s
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

package merge

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

// DateRange spans min created_at to max updated_at across the set.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// LengthDistribution is a 5-bucket histogram of per-message word
// counts: 1-10, 11-50, 51-200, 201-500, 500+.
type LengthDistribution struct {
	VeryShort int `json:"very_short"`
	Short     int `json:"short"`
	Medium    int `json:"medium"`
	Long      int `json:"long"`
	VeryLong  int `json:"very_long"`
}

// SourceCounts tallies conversations per export dialect.
type SourceCounts struct {
	ChatGPT int `json:"chatgpt"`
	Claude  int `json:"claude"`
}

// GlobalStats is recomputed over the whole merged set on every
// successful parse.
type GlobalStats struct {
	TotalConversations        int                `json:"total_conversations"`
	TotalMessages             int                `json:"total_messages"`
	TotalWords                int                `json:"total_words"`
	DateRange                 DateRange          `json:"date_range"`
	ConversationsPerMonth     map[string]int     `json:"conversations_per_month"`
	MessageLengthDistribution LengthDistribution `json:"message_length_distribution"`
	UploadHash                string             `json:"upload_hash"`
	Sources                   SourceCounts       `json:"sources"`
}

// ComputeGlobalStats derives the session-wide statistics for a merged
// conversation set. hash is the identity token from Hash.
func ComputeGlobalStats(conversations []parse.Conversation, hash string) GlobalStats {
	stats := GlobalStats{
		TotalConversations:    len(conversations),
		ConversationsPerMonth: make(map[string]int),
		UploadHash:            hash,
	}

	for i, conv := range conversations {
		stats.TotalMessages += conv.Stats.MessageCount
		stats.TotalWords += conv.Stats.TotalWords

		if i == 0 || conv.CreatedAt.Before(stats.DateRange.Earliest) {
			stats.DateRange.Earliest = conv.CreatedAt
		}
		if i == 0 || conv.UpdatedAt.After(stats.DateRange.Latest) {
			stats.DateRange.Latest = conv.UpdatedAt
		}

		monthKey := fmt.Sprintf("%04d-%02d", conv.CreatedAt.Year(), int(conv.CreatedAt.Month()))
		stats.ConversationsPerMonth[monthKey]++

		for _, msg := range conv.Messages {
			stats.MessageLengthDistribution.bump(msg.Text)
		}

		switch conv.Source {
		case string(parse.FormatChatGPT):
			stats.Sources.ChatGPT++
		case string(parse.FormatClaude):
			stats.Sources.Claude++
		}
	}

	return stats
}

func (d *LengthDistribution) bump(text string) {
	words := len(strings.Fields(text))
	switch {
	case words <= 10:
		d.VeryShort++
	case words <= 50:
		d.Short++
	case words <= 200:
		d.Medium++
	case words <= 500:
		d.Long++
	default:
		d.VeryLong++
	}
}

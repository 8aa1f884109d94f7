package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

type jsonEnvelope struct {
	ExportDate        time.Time            `json:"export_date"`
	ConversationCount int                  `json:"conversation_count"`
	SearchFilters     []string             `json:"search_filters"`
	Conversations     []parse.Conversation `json:"conversations"`
}

// JSON serializes the selected conversations with their metadata
// envelope. Returns nil when nothing is selected.
func JSON(selected []parse.Conversation, filters []string, now time.Time) ([]byte, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	if filters == nil {
		filters = []string{}
	}
	data, err := json.MarshalIndent(jsonEnvelope{
		ExportDate:        now,
		ConversationCount: len(selected),
		SearchFilters:     filters,
		Conversations:     selected,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

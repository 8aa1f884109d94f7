package parse

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// retryWindow collapses rapid edit/retry bursts: two adjacent messages
// from the same role closer than this are one logical message.
const retryWindow = 30 * time.Second

type chatGPTRecord struct {
	Title      string                `json:"title"`
	CreateTime json.RawMessage       `json:"create_time"`
	CreatedAt  json.RawMessage       `json:"created_at"`
	Timestamp  json.RawMessage       `json:"timestamp"`
	Mapping    map[string]chatGPTNode `json:"mapping"`
	Messages   []chatGPTFlatMessage  `json:"messages"`
}

type chatGPTNode struct {
	Message *chatGPTNodeMessage `json:"message"`
}

type chatGPTNodeMessage struct {
	Author struct {
		Role string `json:"role"`
	} `json:"author"`
	Content    json.RawMessage `json:"content"`
	CreateTime json.RawMessage `json:"create_time"`
}

type chatGPTFlatMessage struct {
	Role      string          `json:"role"`
	Content   json.RawMessage `json:"content"`
	Text      json.RawMessage `json:"text"`
	CreatedAt json.RawMessage `json:"created_at"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type chatGPTNormalizer struct{}

func (chatGPTNormalizer) Normalize(raw json.RawMessage, ordinal int) (*Conversation, error) {
	var rec chatGPTRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode chatgpt record: %w", err)
	}

	conv := &Conversation{
		Title:     rec.Title,
		Source:    string(FormatChatGPT),
		CreatedAt: firstTime(rec.CreateTime, rec.CreatedAt, rec.Timestamp),
	}
	if conv.Title == "" {
		conv.Title = fmt.Sprintf("Conversation %d", ordinal+1)
	}

	if rec.Mapping != nil {
		conv.Messages = collapseRetries(mappingMessages(rec.Mapping, conv.CreatedAt))
	} else {
		for _, m := range rec.Messages {
			role := m.Role
			if role != RoleUser && role != RoleAssistant {
				continue
			}
			content := m.Content
			if len(content) == 0 || string(content) == "null" {
				content = m.Text
			}
			text := strings.TrimSpace(extractText(content))
			if text == "" {
				continue
			}
			created := timeOrFallback(m.CreatedAt, time.Time{})
			if created.IsZero() {
				created = timeOrFallback(m.Timestamp, conv.CreatedAt)
			}
			conv.Messages = append(conv.Messages, Message{
				Role:      role,
				Text:      text,
				CreatedAt: created,
			})
		}
	}

	conv.finalize()
	return conv, nil
}

// mappingMessages flattens a ChatGPT mapping (node-id -> node) into a
// chronologically sorted message list. Node IDs are visited in sorted
// order so output is deterministic when timestamps tie.
func mappingMessages(mapping map[string]chatGPTNode, fallback time.Time) []Message {
	ids := make([]string, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var messages []Message
	for _, id := range ids {
		node := mapping[id]
		if node.Message == nil || node.Message.Author.Role == "" {
			continue
		}
		role := node.Message.Author.Role
		if role != RoleUser && role != RoleAssistant {
			continue
		}
		text := strings.TrimSpace(extractText(node.Message.Content))
		if text == "" {
			continue
		}
		messages = append(messages, Message{
			Role:      role,
			Text:      text,
			CreatedAt: timeOrFallback(node.Message.CreateTime, fallback),
		})
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages
}

// collapseRetries drops rapid same-role duplicates, keeping the later
// message of each burst. Input must be sorted ascending.
func collapseRetries(messages []Message) []Message {
	var out []Message
	for _, msg := range messages {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Role == msg.Role && msg.CreatedAt.Sub(last.CreatedAt) < retryWindow {
				out[len(out)-1] = msg
				continue
			}
		}
		out = append(out, msg)
	}
	return out
}

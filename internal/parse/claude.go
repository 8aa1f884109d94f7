package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

type claudeRecord struct {
	Name         string              `json:"name"`
	CreatedAt    json.RawMessage     `json:"created_at"`
	ChatMessages []claudeChatMessage `json:"chat_messages"`
	Messages     []claudeFlexMessage `json:"messages"`
}

type claudeChatMessage struct {
	Sender    string          `json:"sender"`
	Text      string          `json:"text"`
	Content   json.RawMessage `json:"content"`
	CreatedAt json.RawMessage `json:"created_at"`
}

type claudeFlexMessage struct {
	Role      string          `json:"role"`
	Sender    string          `json:"sender"`
	Content   json.RawMessage `json:"content"`
	Text      string          `json:"text"`
	CreatedAt json.RawMessage `json:"created_at"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type claudeNormalizer struct{}

func (claudeNormalizer) Normalize(raw json.RawMessage, ordinal int) (*Conversation, error) {
	var rec claudeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode claude record: %w", err)
	}

	conv := &Conversation{
		Title:     rec.Name,
		Source:    string(FormatClaude),
		CreatedAt: firstTime(rec.CreatedAt),
	}
	if conv.Title == "" {
		conv.Title = fmt.Sprintf("Conversation %d", ordinal+1)
	}

	push := func(sender, text string, createdAt json.RawMessage) {
		role := mapClaudeRole(sender)
		if role == "" {
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		conv.Messages = append(conv.Messages, Message{
			Role:      role,
			Text:      text,
			CreatedAt: timeOrFallback(createdAt, conv.CreatedAt),
		})
	}

	switch {
	case rec.ChatMessages != nil:
		for _, m := range rec.ChatMessages {
			text := m.Text
			if text == "" && isArray(m.Content) {
				text = extractText(m.Content)
			}
			push(m.Sender, text, m.CreatedAt)
		}

	case rec.Messages != nil:
		for _, m := range rec.Messages {
			role := m.Role
			if role == "" {
				role = m.Sender
			}
			ts := m.CreatedAt
			if len(ts) == 0 || string(ts) == "null" {
				ts = m.Timestamp
			}
			push(strings.ToLower(role), flattenFlexContent(m), ts)
		}
	}

	conv.finalize()
	return conv, nil
}

// mapClaudeRole translates source roles to the canonical enum; any
// other role value drops the message.
func mapClaudeRole(sender string) string {
	switch sender {
	case "human", RoleUser:
		return RoleUser
	case "claude", RoleAssistant:
		return RoleAssistant
	default:
		return ""
	}
}

// flattenFlexContent handles the looser messages[] variant, where
// content may be a string, an array mixing plain strings and text
// blocks, or absent in favor of a text field.
func flattenFlexContent(m claudeFlexMessage) string {
	if len(m.Content) == 0 || string(m.Content) == "null" {
		return m.Text
	}

	var s string
	if err := json.Unmarshal(m.Content, &s); err == nil {
		return s
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(m.Content, &parts); err == nil {
		var texts []string
		for _, p := range parts {
			var ps string
			if err := json.Unmarshal(p, &ps); err == nil {
				if ps != "" {
					texts = append(texts, ps)
				}
				continue
			}
			var block contentBlock
			if err := json.Unmarshal(p, &block); err == nil && block.Text != "" {
				texts = append(texts, block.Text)
			}
		}
		return strings.Join(texts, "\n")
	}

	return m.Text
}

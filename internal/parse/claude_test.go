package parse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeChatMessages(t *testing.T) {
	raw := json.RawMessage(`{
		"name": "Debug session",
		"created_at": "2024-03-01T10:00:00Z",
		"chat_messages": [
			{"sender": "human", "text": "why does this panic", "created_at": "2024-03-01T10:00:00Z"},
			{"sender": "assistant", "text": "nil map write", "created_at": "2024-03-01T10:01:00Z"},
			{"sender": "system", "text": "dropped"}
		]
	}`)

	conv, err := claudeNormalizer{}.Normalize(raw, 0)
	require.NoError(t, err)

	assert.Equal(t, "Debug session", conv.Title)
	assert.Equal(t, "claude", conv.Source)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), conv.CreatedAt)

	require.Len(t, conv.Messages, 2, "unknown senders are dropped")
	assert.Equal(t, RoleUser, conv.Messages[0].Role)
	assert.Equal(t, RoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, 1, conv.Stats.DurationMinutes)
}

func TestClaudeChatMessageContentBlocks(t *testing.T) {
	raw := json.RawMessage(`{
		"name": "blocks",
		"created_at": "2024-03-01T10:00:00Z",
		"chat_messages": [
			{"sender": "human", "content": [{"type": "text", "text": "from a block"}]}
		]
	}`)

	conv, err := claudeNormalizer{}.Normalize(raw, 0)
	require.NoError(t, err)

	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "from a block", conv.Messages[0].Text)
	assert.Equal(t, conv.CreatedAt, conv.Messages[0].CreatedAt,
		"missing message time falls back to conversation time")
}

func TestClaudeFlexMessages(t *testing.T) {
	raw := json.RawMessage(`{
		"created_at": "2024-03-01T10:00:00Z",
		"messages": [
			{"role": "Human", "content": "plain string"},
			{"sender": "claude", "content": ["part one", {"type": "text", "text": "part two"}]},
			{"role": "tool", "content": "dropped"}
		]
	}`)

	conv, err := claudeNormalizer{}.Normalize(raw, 1)
	require.NoError(t, err)

	assert.Equal(t, "Conversation 2", conv.Title)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "plain string", conv.Messages[0].Text)
	assert.Equal(t, RoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, "part one\npart two", conv.Messages[1].Text)
}

func TestMapClaudeRole(t *testing.T) {
	assert.Equal(t, RoleUser, mapClaudeRole("human"))
	assert.Equal(t, RoleUser, mapClaudeRole("user"))
	assert.Equal(t, RoleAssistant, mapClaudeRole("claude"))
	assert.Equal(t, RoleAssistant, mapClaudeRole("assistant"))
	assert.Equal(t, "", mapClaudeRole("system"))
	assert.Equal(t, "", mapClaudeRole(""))
}

package parse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatGPTMappingNormalize(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "Let's ship v2",
		"create_time": 1700000000,
		"mapping": {
			"n2": {"message": {"author": {"role": "assistant"}, "content": {"parts": ["Shipped v2 today"]}, "create_time": 1700000060}},
			"n1": {"message": {"author": {"role": "user"}, "content": {"parts": ["Let's ship v2"]}, "create_time": 1700000000}},
			"n0": {"message": null}
		}
	}`)

	conv, err := chatGPTNormalizer{}.Normalize(raw, 0)
	require.NoError(t, err)

	assert.Equal(t, "Let's ship v2", conv.Title)
	assert.Equal(t, "chatgpt", conv.Source)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), conv.CreatedAt)

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "Let's ship v2", conv.Messages[0].Text)
	assert.Equal(t, RoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, "Shipped v2 today", conv.Messages[1].Text)

	assert.Equal(t, time.Unix(1700000060, 0).UTC(), conv.UpdatedAt)
	assert.Equal(t, 2, conv.Stats.MessageCount)
	assert.Equal(t, 1, conv.Stats.UserMessageCount)
	assert.Equal(t, 1, conv.Stats.AssistantMessageCount)
	assert.Equal(t, 6, conv.Stats.TotalWords)
	assert.Equal(t, 1, conv.Stats.DurationMinutes)
}

func TestChatGPTRetryCollapse(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "retries",
		"create_time": 1700000000,
		"mapping": {
			"a": {"message": {"author": {"role": "user"}, "content": {"parts": ["first try"]}, "create_time": 1700000000}},
			"b": {"message": {"author": {"role": "user"}, "content": {"parts": ["second try"]}, "create_time": 1700000005}},
			"c": {"message": {"author": {"role": "assistant"}, "content": {"parts": ["answer"]}, "create_time": 1700000040}}
		}
	}`)

	conv, err := chatGPTNormalizer{}.Normalize(raw, 0)
	require.NoError(t, err)

	require.Len(t, conv.Messages, 2, "same-role burst within 30s collapses")
	assert.Equal(t, "second try", conv.Messages[0].Text, "the later retry wins")
	assert.Equal(t, "answer", conv.Messages[1].Text)
}

func TestChatGPTRetryGapSurvives(t *testing.T) {
	raw := json.RawMessage(`{
		"create_time": 1700000000,
		"mapping": {
			"a": {"message": {"author": {"role": "user"}, "content": {"parts": ["one"]}, "create_time": 1700000000}},
			"b": {"message": {"author": {"role": "user"}, "content": {"parts": ["two"]}, "create_time": 1700000045}}
		}
	}`)

	conv, err := chatGPTNormalizer{}.Normalize(raw, 0)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 2, "messages 45s apart are distinct")
}

func TestChatGPTFlatMessages(t *testing.T) {
	raw := json.RawMessage(`{
		"messages": [
			{"role": "user", "content": "hi there", "timestamp": 1700000000},
			{"role": "system", "content": "rules"},
			{"role": "assistant", "text": "hello friend", "timestamp": 1700000030},
			{"role": "user", "content": "   "}
		]
	}`)

	conv, err := chatGPTNormalizer{}.Normalize(raw, 0)
	require.NoError(t, err)

	assert.Equal(t, "Conversation 1", conv.Title, "missing title falls back to ordinal")

	require.Len(t, conv.Messages, 2, "system role and blank text are dropped")
	assert.Equal(t, "hi there", conv.Messages[0].Text)
	assert.Equal(t, "hello friend", conv.Messages[1].Text)
	assert.Equal(t, time.Unix(1700000030, 0).UTC(), conv.Messages[1].CreatedAt)
}

func TestChatGPTMillisecondTimestamps(t *testing.T) {
	raw := json.RawMessage(`{"title": "ms", "create_time": 1700000000000, "mapping": {}}`)

	conv, err := chatGPTNormalizer{}.Normalize(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), conv.CreatedAt)
}

func TestChatGPTMalformedRecord(t *testing.T) {
	_, err := chatGPTNormalizer{}.Normalize(json.RawMessage(`[1,2,3]`), 0)
	assert.Error(t, err)
}

package session

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/search"
)

const chatGPTExport = `[
	{
		"title": "Let's ship v2",
		"create_time": 1700000000,
		"mapping": {
			"n1": {"message": {"author": {"role": "user"}, "content": {"parts": ["Can we ship v2 this week"]}, "create_time": 1700000000}},
			"n2": {"message": {"author": {"role": "assistant"}, "content": {"parts": ["Shipped v2 today"]}, "create_time": 1700000120}}
		}
	},
	{
		"title": "Pasta recipes",
		"create_time": 1700100000,
		"mapping": {
			"n1": {"message": {"author": {"role": "user"}, "content": {"parts": ["dinner ideas please"]}, "create_time": 1700100000}}
		}
	}
]`

const claudeExport = `[
	{
		"name": "Debugging goroutines",
		"created_at": "2023-11-20T10:00:00Z",
		"chat_messages": [
			{"sender": "human", "text": "my goroutine leaks", "created_at": "2023-11-20T10:00:00Z"},
			{"sender": "assistant", "text": "close the channel", "created_at": "2023-11-20T10:05:00Z"}
		]
	}
]`

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

func TestParseDataMergesAndIndexes(t *testing.T) {
	s := New(WithLogger(quietLogger()))

	result, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)

	assert.Equal(t, "chatgpt", string(result.Format))
	assert.Len(t, result.Conversations, 2)
	assert.Equal(t, "conv_0", result.Conversations[0].ID)
	assert.Equal(t, 2, result.Stats.TotalConversations)
	assert.Len(t, result.Hash, 16)
	assert.Zero(t, result.Removed)

	// Re-ingesting the same file is a no-op merge
	again, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)
	assert.Equal(t, 2, again.Removed)
	assert.Len(t, again.Conversations, 2)
	assert.Equal(t, result.Hash, again.Hash)
}

func TestParseDataCrossSourceMerge(t *testing.T) {
	s := New(WithLogger(quietLogger()))

	_, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)
	result, err := s.ParseData("claude.json", []byte(claudeExport))
	require.NoError(t, err)

	assert.Len(t, result.Conversations, 3)
	assert.Equal(t, 2, result.Stats.Sources.ChatGPT)
	assert.Equal(t, 1, result.Stats.Sources.Claude)
}

func TestParseDataUnknownFormatKeepsState(t *testing.T) {
	s := New(WithLogger(quietLogger()))

	_, err := s.ParseData("good.json", []byte(chatGPTExport))
	require.NoError(t, err)
	before := s.Hash()

	_, err = s.ParseData("bad.json", []byte(`{"foo":"bar"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
	assert.Contains(t, err.Error(), "foo")

	assert.Equal(t, before, s.Hash(), "failed parse leaves the session untouched")
	assert.Len(t, s.Conversations(), 2)
}

func TestSearchRanksAndSnippets(t *testing.T) {
	now := time.Unix(1700200000, 0).UTC()
	s := New(WithLogger(quietLogger()), WithClock(func() time.Time { return now }))

	_, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)

	results := s.Search("ship", search.DateAll)
	require.Len(t, results, 1)
	assert.Equal(t, "Let's ship v2", results[0].Conversation.Title)
	assert.Equal(t, 3, results[0].Score, "title hit")
	assert.Equal(t, results, s.Results())

	s.AddFilter("ship")
	snippet := s.Snippet(results[0].Conversation)
	assert.Contains(t, snippet, "<mark>ship</mark>")
}

func TestSearchDateFilterUsesClock(t *testing.T) {
	// 50 days after the first conversation, 49 days after the second
	now := time.Unix(1700000000, 0).UTC().AddDate(0, 0, 50)
	s := New(WithLogger(quietLogger()), WithClock(func() time.Time { return now }))

	_, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)

	assert.Len(t, s.Search("please", search.DateAll), 1)
	assert.Empty(t, s.Search("please", search.DateDays30), "49 day old conversation is outside 30 days")
	assert.Len(t, s.Search("please", search.DateDays90), 1)
}

func TestFilterLifecycle(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	_, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)

	assert.True(t, s.AddFilter("Ship"))
	assert.False(t, s.AddFilter("ship"), "case-insensitive duplicate")
	assert.False(t, s.AddFilter("   "))
	assert.Equal(t, []string{"Ship"}, s.Filters())

	results := s.SearchFilters(search.DateAll)
	require.Len(t, results, 1)

	assert.True(t, s.RemoveFilter("Ship"))
	assert.False(t, s.RemoveFilter("Ship"))
	s.AddFilter("a")
	s.ClearFilters()
	assert.Empty(t, s.Filters())
}

func TestSelectionLifecycle(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	_, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)

	assert.True(t, s.ToggleSelection("conv_0"))
	assert.True(t, s.IsSelected("conv_0"))
	assert.Equal(t, 1, s.SelectionCount())
	assert.False(t, s.ToggleSelection("conv_0"))
	assert.Zero(t, s.SelectionCount())

	s.SetSelections([]string{"conv_1", "conv_0", "ghost", ""})
	selected := s.SelectedConversations()
	require.Len(t, selected, 2, "unknown IDs resolve to nothing")
	assert.Equal(t, "conv_0", selected[0].ID, "merged-set order, not selection order")

	// A new search clears the selection
	s.Search("ship", search.DateAll)
	assert.Zero(t, s.SelectionCount())
}

func TestConversationByID(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	_, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)

	conv := s.ConversationByID("conv_1")
	require.NotNil(t, conv)
	assert.Equal(t, "Pasta recipes", conv.Title)
	assert.Nil(t, s.ConversationByID("ghost"))
}

func TestQAPartition(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	_, err := s.ParseData("chatgpt.json", []byte(chatGPTExport))
	require.NoError(t, err)

	pairs, threads := s.QA()
	assert.Empty(t, pairs, "neither title looks like a question")
	assert.Len(t, threads, 2)
}

func TestIngestAll(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "claude.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(claudeExport), 0o644))

	zipPath := filepath.Join(dir, "chatgpt.zip")
	zf, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(zf)
	member, err := zw.Create("conversations.json")
	require.NoError(t, err)
	_, err = member.Write([]byte(chatGPTExport))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, zf.Close())

	s := New(WithLogger(quietLogger()))
	result, err := s.IngestAll([]string{jsonPath, zipPath})
	require.NoError(t, err)

	assert.Len(t, result.Conversations, 3)
	assert.Equal(t, 1, result.Stats.Sources.Claude)
	assert.Equal(t, 2, result.Stats.Sources.ChatGPT)
}

func TestIngestAllEmpty(t *testing.T) {
	s := New(WithLogger(quietLogger()))
	_, err := s.IngestAll(nil)
	assert.Error(t, err)
}

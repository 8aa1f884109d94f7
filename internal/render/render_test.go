package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

func renderConv() parse.Conversation {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	conv := parse.Conversation{
		Title:     "Launch planning",
		Source:    "chatgpt",
		CreatedAt: base,
		Messages: []parse.Message{
			{Role: parse.RoleUser, Text: "when do we launch", CreatedAt: base},
			{Role: parse.RoleAssistant, Text: "next week", CreatedAt: base.Add(time.Minute)},
		},
	}
	conv.UpdatedAt = base.Add(time.Minute)
	conv.Stats = parse.Stats{MessageCount: 2, TotalWords: 6, DurationMinutes: 1}
	return conv
}

func TestConversationOutput(t *testing.T) {
	out := Conversation(renderConv(), Options{})

	assert.Contains(t, out, "Launch planning")
	assert.Contains(t, out, "[chatgpt]")
	assert.Contains(t, out, "2 messages, 6 words, 1 min")
	assert.Contains(t, out, "USER >")
	assert.Contains(t, out, "ASST >")
	assert.Contains(t, out, "  when do we launch", "message text is indented")
}

func TestConversationHighlightsQuery(t *testing.T) {
	out := Conversation(renderConv(), Options{Query: "launch"})
	assert.Contains(t, out, colorBoldRed+"launch"+colorReset)
}

func TestConversationEmpty(t *testing.T) {
	conv := parse.Conversation{Title: "empty", CreatedAt: time.Now()}
	out := Conversation(conv, Options{})
	assert.Contains(t, out, "(empty conversation)")
}

func TestWrapLine(t *testing.T) {
	lines := wrapLine("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, lines)

	// ANSI escapes do not count toward width
	colored := colorDim + "abcd" + colorReset
	lines = wrapLine(colored, 4)
	assert.Len(t, lines, 1)
	assert.Equal(t, colored, lines[0])

	assert.Equal(t, []string{""}, wrapLine("", 4))
	assert.Equal(t, []string{"whatever"}, wrapLine("whatever", 0), "no wrapping without a width")
}

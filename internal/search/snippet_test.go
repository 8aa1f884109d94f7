package search

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

func snippetConv(text string) parse.Conversation {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return parse.Conversation{
		Title:     "snippets",
		CreatedAt: base,
		Messages:  []parse.Message{{Role: parse.RoleUser, Text: text, CreatedAt: base}},
	}
}

func TestSnippetHighlights(t *testing.T) {
	conv := snippetConv("we should launch the new version next week")

	got := Snippet(conv, []string{"launch"})
	assert.Contains(t, got, "<mark>launch</mark>")
	assert.NotContains(t, got, "...", "short text needs no ellipses")
}

func TestSnippetEscapesBeforeHighlighting(t *testing.T) {
	conv := snippetConv(`use <script>alert("launch")</script> carefully`)

	got := Snippet(conv, []string{"launch"})
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
	assert.Contains(t, got, "<mark>launch</mark>")
}

func TestSnippetWindow(t *testing.T) {
	long := strings.Repeat("a ", 100) + "needle" + strings.Repeat(" b", 200)
	conv := snippetConv(long)

	got := Snippet(conv, []string{"needle"})
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Contains(t, got, "<mark>needle</mark>")
	assert.Less(t, len(got), 300, "window is bounded")
}

func TestSnippetNoMatch(t *testing.T) {
	conv := snippetConv("nothing relevant here")
	assert.Equal(t, "", Snippet(conv, []string{"absent"}))
	assert.Equal(t, "", Snippet(conv, nil))
}

func TestPlainSnippet(t *testing.T) {
	conv := snippetConv(`the <b>launch</b> plan`)

	got := PlainSnippet(conv, []string{"launch"})
	assert.Contains(t, got, "<b>launch</b>", "no escaping for terminal display")
	assert.NotContains(t, got, "mark")
}

func TestHighlightTextCaseInsensitive(t *testing.T) {
	got := HighlightText("Launch the LAUNCH", []string{"launch"})
	assert.Equal(t, "<mark>Launch</mark> the <mark>LAUNCH</mark>", got)
}

package search

import (
	"regexp"
	"strings"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

const (
	snippetLead   = 50
	snippetMaxLen = 200
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Snippet returns a safe HTML excerpt around the first phrase match
// in any message, with <mark> highlighting, or "" when nothing
// matches. Text is escaped before highlighting so message content can
// never smuggle markup into reports.
func Snippet(conv parse.Conversation, phrases []string) string {
	for _, msg := range conv.Messages {
		for _, phrase := range phrases {
			if !ContainsPhrase(msg.Text, phrase) {
				continue
			}
			window := matchWindow(msg.Text, phrase)
			return HighlightText(window, phrases)
		}
	}
	return ""
}

// PlainSnippet is Snippet without escaping or markup, for terminal
// display.
func PlainSnippet(conv parse.Conversation, phrases []string) string {
	for _, msg := range conv.Messages {
		for _, phrase := range phrases {
			if ContainsPhrase(msg.Text, phrase) {
				return matchWindow(msg.Text, phrase)
			}
		}
	}
	return ""
}

// matchWindow slices out snippetLead runes before the match and up to
// snippetMaxLen after it, with ellipses where the text continues.
func matchWindow(text, phrase string) string {
	byteIdx := strings.Index(strings.ToLower(text), strings.ToLower(phrase))
	if byteIdx < 0 {
		return ""
	}
	runes := []rune(text)
	runePos := len([]rune(text[:byteIdx]))

	start := runePos - snippetLead
	if start < 0 {
		start = 0
	}
	end := runePos + snippetMaxLen
	if end > len(runes) {
		end = len(runes)
	}

	window := string(runes[start:end])
	if start > 0 {
		window = "..." + window
	}
	if end < len(runes) {
		window = window + "..."
	}
	return window
}

// HighlightText escapes text and wraps each phrase occurrence in
// <mark> tags. Used for snippets and HTML export rendering.
func HighlightText(text string, phrases []string) string {
	if text == "" {
		return ""
	}
	highlighted := htmlEscaper.Replace(text)
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)(` + regexp.QuoteMeta(phrase) + `)`)
		if err != nil {
			continue
		}
		highlighted = re.ReplaceAllString(highlighted, "<mark>$1</mark>")
	}
	return highlighted
}

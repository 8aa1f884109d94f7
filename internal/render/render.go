// Package render draws a conversation in the terminal with role
// colors, keyword highlighting, and width-aware wrapping.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/search"
)

const (
	colorReset   = "\033[0m"
	colorUser    = "\033[1;34m" // bold blue
	colorAssist  = "\033[1;32m" // bold green
	colorDim     = "\033[2m"
	colorBoldRed = "\033[1;31m" // keyword highlights
)

type Options struct {
	Width int    // wrap width (0 = no wrap)
	Query string // search query for keyword highlighting
}

// highlightKeywords wraps case-insensitive matches of the query's
// phrases in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	phrases := search.ParseQuery(query)
	for _, phrase := range phrases {
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), phrase)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(phrase)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(phrase):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into lines that fit within maxWidth
// visible columns, skipping ANSI escape sequences when measuring.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// Conversation renders a normalized conversation for terminal output.
func Conversation(conv parse.Conversation, opts Options) string {
	var b strings.Builder
	separator := colorDim + "--------------------------------------------------" + colorReset

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	writeLine(fmt.Sprintf("%s--- %s [%s] %s ---%s",
		colorDim, conv.Title, conv.Source, conv.CreatedAt.Format("2006-01-02 15:04"), colorReset))
	writeLine(fmt.Sprintf("%s%d messages, %d words, %d min%s",
		colorDim, conv.Stats.MessageCount, conv.Stats.TotalWords, conv.Stats.DurationMinutes, colorReset))

	if len(conv.Messages) == 0 {
		writeLine("(empty conversation)")
		return b.String()
	}

	for i, msg := range conv.Messages {
		if i > 0 {
			writeLine(separator)
		}

		roleColor, roleLabel := colorAssist, "ASST"
		if msg.Role == parse.RoleUser {
			roleColor, roleLabel = colorUser, "USER"
		}
		writeLine(fmt.Sprintf("%s%s >%s %s%s%s",
			roleColor, roleLabel, colorReset,
			colorDim, msg.CreatedAt.Format("2006-01-02 15:04:05"), colorReset))

		text := highlightKeywords(msg.Text, opts.Query)
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			writeLine(tl)
		}
		writeLine("")
	}

	return b.String()
}

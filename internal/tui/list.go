package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: search results list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
		return empty
	}

	phrases := search.ParseQuery(m.query)

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		checked := m.sess.IsSelected(r.Conversation.ID)
		rows := formatResultLine(r, phrases, width, i == m.cursor, checked)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single search result as two lines:
//
//	line 1: [>] [x] source  date  title
//	line 2:        snippet or message count (dimmed)
func formatResultLine(r search.Result, phrases []string, width int, selected, checked bool) []string {
	conv := r.Conversation

	// Format source with color
	var src string
	switch conv.Source {
	case "chatgpt":
		src = styleSourceChatGPT.Render("chatgpt")
	case "claude":
		src = styleSourceClaude.Render("claude ")
	default:
		src = conv.Source
	}

	checkbox := "[ ]"
	if checked {
		checkbox = styleChecked.Render("[x]")
	}

	date := conv.CreatedAt.Format("01-02")

	// Truncate title to fit width: leave room for "  [x] chatgpt MM-DD "
	title := strings.ReplaceAll(conv.Title, "\n", " ")
	titleMax := width - 2 - 4 - 8 - 6 - 2
	if titleMax < 0 {
		titleMax = 0
	}
	if runewidth.StringWidth(title) > titleMax {
		title = runewidth.Truncate(title, titleMax, "")
	}

	// Line 1: checkbox source date title
	line1 := fmt.Sprintf("%s %s %s %s", checkbox, src, date, title)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	// Line 2: snippet around the first phrase hit, or message count
	detail := search.PlainSnippet(conv, phrases)
	if detail == "" {
		detail = fmt.Sprintf("%d messages, %d words", conv.Stats.MessageCount, conv.Stats.TotalWords)
	}
	detail = strings.ReplaceAll(detail, "\n", " ")
	detail = strings.ReplaceAll(detail, "\t", " ")
	detailMax := width - 6 // indent
	if detailMax < 0 {
		detailMax = 0
	}
	if runewidth.StringWidth(detail) > detailMax {
		detail = runewidth.Truncate(detail, detailMax, "")
	}
	line2 := "      " + lipgloss.NewStyle().Foreground(colorDim).Render(detail)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}

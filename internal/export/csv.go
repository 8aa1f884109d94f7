package export

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

var csvHeader = []string{
	"conversation_id",
	"conversation_title",
	"created_at",
	"message_index",
	"role",
	"text",
}

var formulaLeadRe = regexp.MustCompile(`^[=+\-@]`)

// CSV serializes one row per message, every field always quoted, with
// a UTF-8 BOM for spreadsheet compatibility and a guard against
// formula injection. Returns "" when nothing is selected.
func CSV(selected []parse.Conversation) string {
	if len(selected) == 0 {
		return ""
	}

	rows := []string{joinCSV(csvHeader)}
	for _, conv := range selected {
		title := conv.Title
		if title == "" {
			title = "Untitled"
		}
		created := conv.CreatedAt.Format(time.RFC3339)
		for i, msg := range conv.Messages {
			rows = append(rows, joinCSV([]string{
				conv.ID,
				title,
				created,
				strconv.Itoa(i + 1),
				msg.Role,
				msg.Text,
			}))
		}
	}

	return "\uFEFF" + strings.Join(rows, "\n")
}

func joinCSV(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = escapeCSV(f)
	}
	return strings.Join(escaped, ",")
}

func escapeCSV(val string) string {
	s := val
	if formulaLeadRe.MatchString(s) {
		s = "'" + s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, `"`, `""`)
	return `"` + s + `"`
}

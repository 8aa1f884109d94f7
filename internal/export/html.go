package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/search"
)

const htmlStyle = `    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 0 auto; padding: 2rem; }
    h1 { color: #2563eb; border-bottom: 2px solid #e5e7eb; padding-bottom: 0.5rem; }
    h2 { color: #1e40af; margin-top: 2rem; }
    .conversation { border: 1px solid #e5e7eb; border-radius: 8px; padding: 1rem; margin: 1rem 0; page-break-inside: avoid; }
    .message { margin: 0.5rem 0; padding: 0.5rem; border-left: 3px solid #ddd; }
    .user { border-left-color: #2563eb; background: #eff6ff; }
    .assistant { border-left-color: #10b981; background: #f0fdf4; }
    .role { font-weight: bold; color: #64748b; }
    mark { background: #fef3c7; padding: 2px 4px; border-radius: 2px; }
    .meta { color: #64748b; font-size: 0.875rem; }
    .filters { background: #f3f4f6; padding: 0.5rem; border-radius: 4px; margin-bottom: 1rem; }`

// HTML renders the selected conversations as a standalone styled
// page. All message content is escaped; filter phrases are wrapped in
// <mark>. Returns "" when nothing is selected.
func HTML(selected []parse.Conversation, filters []string, now time.Time) string {
	if len(selected) == 0 {
		return ""
	}

	filterText := search.HighlightText(strings.Join(filters, ", "), nil)
	if filterText == "" {
		filterText = "None"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Conversation Export: %s</title>
  <style>
%s
  </style>
</head>
<body>
  <h1>Conversation Export</h1>
  <div class="filters">Search filters: %s</div>
  <p class="meta">Exported %d conversations &bull; %s</p>
`, filterText, htmlStyle, filterText, len(selected), now.Format("2006-01-02 15:04"))

	for _, conv := range selected {
		fmt.Fprintf(&b, `
  <div class="conversation">
    <h2>%s</h2>
    <p class="meta">Created: %s</p>
`, search.HighlightText(conv.Title, filters), conv.CreatedAt.Format("2006-01-02 15:04"))

		for i, msg := range conv.Messages {
			roleClass, roleLabel := "assistant", "Assistant"
			if msg.Role == parse.RoleUser {
				roleClass, roleLabel = "user", "You"
			}
			fmt.Fprintf(&b, `
    <div class="message %s">
      <div class="role">%s &bull; #%d</div>
      <div>%s</div>
    </div>
`, roleClass, roleLabel, i+1, search.HighlightText(msg.Text, filters))
		}
		b.WriteString("  </div>\n")
	}

	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/search"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/tui"
)

const (
	sColorReset = "\033[0m"
	sColorBlue  = "\033[1;34m"
	sColorGreen = "\033[1;32m"
	sColorDim   = "\033[2m"
)

func colorizeSource(source string) string {
	switch source {
	case "chatgpt":
		return sColorGreen + source + sColorReset
	case "claude":
		return sColorBlue + source + sColorReset
	default:
		return source
	}
}

func dateFilter(days string) (search.DateFilter, error) {
	switch search.DateFilter(days) {
	case search.DateAll, search.DateDays30, search.DateDays90, search.DateDays365:
		return search.DateFilter(days), nil
	default:
		return "", fmt.Errorf("invalid --days %q (all, 30, 90, 365)", days)
	}
}

func searchCmd() *cobra.Command {
	var days string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query> <file-or-dir>...",
		Short: "Search merged conversations by keyword or quoted phrase",
		Long: `Search the merged archive. Every phrase must match somewhere in a
conversation (title or messages); title hits rank higher. Quoted
strings match as whole phrases.

Interactive TUI when stdout is a terminal; TSV output for pipes:
  id, score, created, source, title, snippet`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			date, err := dateFilter(days)
			if err != nil {
				return err
			}

			query := args[0]
			sess, _, err := ingest(args[1:])
			if err != nil {
				return err
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(sess, tui.Options{
					Query:      query,
					Date:       date,
					ExportDir:  cfg.ExportDir,
					ExportBase: cfg.ExportBase,
				})
			}

			results := sess.Search(query, date)
			if limit <= 0 {
				limit = cfg.DefaultLimit
			}
			if len(results) > limit {
				results = results[:limit]
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			phrases := search.ParseQuery(query)
			for _, r := range results {
				conv := r.Conversation
				title := strings.ReplaceAll(conv.Title, "\t", " ")
				title = strings.ReplaceAll(title, "\n", " ")
				snippet := search.PlainSnippet(conv, phrases)
				snippet = strings.ReplaceAll(snippet, "\t", " ")
				snippet = strings.ReplaceAll(snippet, "\n", " ")
				// first field (id) stays plain for fzf {1}
				fmt.Printf("%s\t%d\t%s%s%s\t%s\t%s\t%s\n",
					conv.ID,
					r.Score,
					sColorDim, conv.CreatedAt.Format("2006-01-02"), sColorReset,
					colorizeSource(conv.Source),
					title,
					snippet,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&days, "days", "all", "Restrict to conversations created in the last N days (all/30/90/365)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (default from config)")

	return cmd
}

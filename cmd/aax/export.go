package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/export"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/open"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/search"
)

func exportCmd() *cobra.Command {
	var query, format, out, days string
	var all, openAfter bool

	cmd := &cobra.Command{
		Use:   "export <file-or-dir>...",
		Short: "Export conversations to json, html, csv, or sqlite",
		Long: `Export conversations from the merged archive. With --query, only
matching conversations are exported; with --all, everything. The
output path defaults to the configured export directory with a dated
filename.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			date, err := dateFilter(days)
			if err != nil {
				return err
			}
			if query == "" && !all {
				return fmt.Errorf("nothing to export: pass --query or --all")
			}

			sess, _, err := ingest(args)
			if err != nil {
				return err
			}

			var filters []string
			if all {
				ids := make([]string, 0, len(sess.Conversations()))
				for _, conv := range sess.Conversations() {
					ids = append(ids, conv.ID)
				}
				sess.SetSelections(ids)
			} else {
				results := sess.Search(query, date)
				ids := make([]string, 0, len(results))
				for _, r := range results {
					ids = append(ids, r.Conversation.ID)
				}
				sess.SetSelections(ids)
				filters = search.ParseQuery(query)
			}

			selected := sess.SelectedConversations()
			if len(selected) == 0 {
				fmt.Fprintln(os.Stderr, "Nothing matched, nothing exported.")
				return nil
			}

			now := time.Now()
			path := out
			if path == "" {
				path = filepath.Join(cfg.ExportDir, export.DefaultFilename(cfg.ExportBase, f, now))
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}

			switch f {
			case export.FormatSQLite:
				if err := export.SQLite(path, selected); err != nil {
					return err
				}
			case export.FormatJSON:
				data, err := export.JSON(selected, filters, now)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
			case export.FormatHTML:
				page := export.HTML(selected, filters, now)
				if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
			case export.FormatCSV:
				sheet := export.CSV(selected)
				if err := os.WriteFile(path, []byte(sheet), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
			}

			fmt.Printf("Exported %d conversations to %s\n", len(selected), path)

			if openAfter {
				return open.File(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Export only conversations matching this search")
	cmd.Flags().StringVar(&days, "days", "all", "Restrict --query to recent conversations (all/30/90/365)")
	cmd.Flags().StringVar(&format, "format", "json", "Export format (json/html/csv/sqlite)")
	cmd.Flags().StringVar(&out, "out", "", "Output path (default: export dir + dated filename)")
	cmd.Flags().BoolVar(&all, "all", false, "Export every conversation")
	cmd.Flags().BoolVar(&openAfter, "open", false, "Open the export in $EDITOR afterwards")

	return cmd
}

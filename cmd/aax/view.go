package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/render"
)

func viewCmd() *cobra.Command {
	var id, query string

	cmd := &cobra.Command{
		Use:   "view <file-or-dir>...",
		Short: "Print one conversation with role colors and highlighting",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			if id == "" {
				return fmt.Errorf("--id is required")
			}

			sess, _, err := ingest(args)
			if err != nil {
				return err
			}

			conv := sess.ConversationByID(id)
			if conv == nil {
				return fmt.Errorf("conversation not found: %s", id)
			}

			width := 0
			if term.IsTerminal(int(os.Stdout.Fd())) {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				}
			}

			fmt.Print(render.Conversation(*conv, render.Options{Width: width, Query: query}))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Conversation ID (from search output)")
	cmd.Flags().StringVar(&query, "query", "", "Highlight these keywords")

	return cmd
}

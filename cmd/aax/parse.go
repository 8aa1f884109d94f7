package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file-or-dir>...",
		Short: "Parse export files and report the merged result",
		Long: `Parse one or more ChatGPT or Claude export files (.json or .zip,
directories are scanned for both) and merge them with duplicate
removal. Prints a summary of the merged archive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			_, result, err := ingest(args)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result.Stats)
			}

			fmt.Printf("Format:        %s\n", result.Format)
			fmt.Printf("Conversations: %d\n", result.Stats.TotalConversations)
			fmt.Printf("Messages:      %d\n", result.Stats.TotalMessages)
			fmt.Printf("Words:         %d\n", result.Stats.TotalWords)
			fmt.Printf("Duplicates:    %d removed\n", result.Removed)
			fmt.Printf("Hash:          %s\n", result.Hash)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the global stats object as JSON")

	return cmd
}

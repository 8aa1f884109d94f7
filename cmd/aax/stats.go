package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file-or-dir>...",
		Short: "Show statistics for the merged archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			_, result, err := ingest(args)
			if err != nil {
				return err
			}
			stats := result.Stats

			fmt.Println("=== Totals ===")
			fmt.Printf("  Conversations: %d\n", stats.TotalConversations)
			fmt.Printf("  Messages:      %d\n", stats.TotalMessages)
			fmt.Printf("  Words:         %d\n", stats.TotalWords)
			fmt.Printf("  Duplicates:    %d removed\n", result.Removed)

			fmt.Println("\n=== Sources ===")
			fmt.Printf("  ChatGPT: %d\n", stats.Sources.ChatGPT)
			fmt.Printf("  Claude:  %d\n", stats.Sources.Claude)

			if stats.TotalConversations > 0 {
				fmt.Println("\n=== Date Range ===")
				fmt.Printf("  Earliest: %s\n", stats.DateRange.Earliest.Format("2006-01-02"))
				fmt.Printf("  Latest:   %s\n", stats.DateRange.Latest.Format("2006-01-02"))
			}

			fmt.Println("\n=== Message Lengths (words) ===")
			d := stats.MessageLengthDistribution
			fmt.Printf("  1-10:    %d\n", d.VeryShort)
			fmt.Printf("  11-50:   %d\n", d.Short)
			fmt.Printf("  51-200:  %d\n", d.Medium)
			fmt.Printf("  201-500: %d\n", d.Long)
			fmt.Printf("  500+:    %d\n", d.VeryLong)

			if len(stats.ConversationsPerMonth) > 0 {
				fmt.Println("\n=== Conversations Per Month ===")
				months := make([]string, 0, len(stats.ConversationsPerMonth))
				for month := range stats.ConversationsPerMonth {
					months = append(months, month)
				}
				sort.Strings(months)
				for _, month := range months {
					fmt.Printf("  %s: %d\n", month, stats.ConversationsPerMonth[month])
				}
			}

			fmt.Printf("\n=== Hash: %s ===\n", stats.UploadHash)
			return nil
		},
	}
}

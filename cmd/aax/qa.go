package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func qaCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "qa <file-or-dir>...",
		Short: "Split the archive into quick Q&A pairs and longer threads",
		Long: `Detect short question-and-answer exchanges: conversations with at
most six messages, finished within an hour, whose title looks like a
question. Everything else is a thread.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			sess, _, err := ingest(args)
			if err != nil {
				return err
			}
			pairs, threads := sess.QA()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					QAPairs interface{} `json:"qa_pairs"`
					Threads int         `json:"thread_count"`
				}{QAPairs: pairs, Threads: len(threads)})
			}

			fmt.Printf("%d Q&A pairs, %d threads\n", len(pairs), len(threads))
			for _, p := range pairs {
				fmt.Printf("\n%s[%s]%s %s\n", sColorDim, p.CreatedAt.Format("2006-01-02"), sColorReset, p.Title)
				fmt.Printf("  Q: %s\n", p.Question)
				fmt.Printf("  A: %s\n", p.Answer)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit Q&A pairs as JSON")

	return cmd
}

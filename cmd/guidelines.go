package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/baddebtguard/risk-engine/internal/guideline"
)

var guidelinesTopN int

var guidelinesCmd = &cobra.Command{
	Use:   "guidelines search <query>",
	Short: "Search the embedded BNM guideline corpus",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "search" {
			return fmt.Errorf("unknown subcommand %q, expected: search", args[0])
		}
		query := args[1]

		idx := guideline.NewDefaultIndex()
		results := idx.Search(cmd.Context(), query, guidelinesTopN)

		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "No matching guidelines.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tSCORE\tEXCERPT")
		for _, r := range results {
			excerpt := r.Document.Content
			if len(excerpt) > 80 {
				excerpt = excerpt[:77] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", r.Document.ID, r.Document.Category, r.Score, excerpt)
		}
		return w.Flush()
	},
}

func init() {
	guidelinesCmd.Flags().IntVar(&guidelinesTopN, "top", 5, "number of results to return")
	rootCmd.AddCommand(guidelinesCmd)
}

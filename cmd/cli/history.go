package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/codecritic/codecritic/internal/core"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show stored reviews, or one review by id",
	Long: `Show the review history stored by the service, newest first.
With an id argument, shows that single review in full.

Examples:
  codecritic history
  codecritic history 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	client := newAPIClient()

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid review id %q", args[0])
		}
		stored, err := client.HistoryByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		printStoredReview(stored, true)
		return nil
	}

	reviews, err := client.History(cmd.Context())
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		dimColor.Println("No reviews stored yet.")
		return nil
	}

	for i := range reviews {
		printStoredReview(&reviews[i], false)
	}
	return nil
}

func printStoredReview(r *core.StoredReview, full bool) {
	titleColor.Printf("#%d %s", r.ID, r.Filename)
	dimColor.Printf("  %s  [%s]\n", r.ReviewDate, r.Status)

	if r.ReviewSummary != "" {
		fmt.Printf("  %s\n", r.ReviewSummary)
	}

	if !full {
		return
	}

	var issues []core.Issue
	if err := json.Unmarshal(r.Issues, &issues); err != nil {
		warnColor.Printf("  (issues not parseable: %v)\n", err)
		return
	}
	for _, issue := range issues {
		printIssue(issue)
	}
}

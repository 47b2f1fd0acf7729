package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/HendryAvila/tether/internal/profile"
	"github.com/spf13/cobra"
)

var feedbackLimit int

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "List the most recent feedback submissions",
	Long: `List feedback submitted through the feedback_submit tool, newest first.

Reads the profile database in TETHER_DATA_DIR directly; run it on the host
that serves Tether.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profile.New(profile.Config{DataDir: cfg.DataDir})
		if err != nil {
			return fmt.Errorf("opening profile store: %w", err)
		}
		defer func() { _ = store.Close() }()

		items, err := store.RecentFeedback(cmd.Context(), feedbackLimit)
		if err != nil {
			return fmt.Errorf("loading feedback: %w", err)
		}
		return printFeedback(cmd.OutOrStdout(), items)
	},
}

func init() {
	feedbackCmd.Flags().IntVarP(&feedbackLimit, "limit", "n", 20, "Maximum number of submissions to show")
}

// printFeedback writes one row per submission. Messages are flattened to a
// single line.
func printFeedback(w io.Writer, items []profile.Feedback) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No feedback yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tCATEGORY\tRATING\tCONTACT\tMESSAGE")
	for _, f := range items {
		contact := f.Email
		if contact == "" {
			contact = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			f.ID, f.CreatedAt, f.Category, f.Rating, contact, strings.Join(strings.Fields(f.Message), " "))
	}
	return tw.Flush()
}

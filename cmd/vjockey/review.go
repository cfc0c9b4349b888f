package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vjockey/vjockey/internal/imports"
)

var (
	reviewNotes  string
	approveMatch int64
)

var approveCmd = &cobra.Command{
	Use:   "approve <session-id> <item-id>",
	Short: "Approve an item for commit",
	Long: `Approve an item for commit.

The commit phase resolves the target itself: a manual or
high-confidence match updates that catalog entry, otherwise a new entry
is created. Use --match to pin a specific catalog entry.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := imports.Approve(reviewNotes)
		if approveMatch != 0 {
			d = imports.ApproveMatch(approveMatch, reviewNotes)
		}
		return runDecision(args, d)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <session-id> <item-id>",
	Short: "Exclude an item from commit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecision(args, imports.Reject(reviewNotes))
	},
}

var flagCmd = &cobra.Command{
	Use:   "flag <session-id> <item-id>",
	Short: "Mark an item as needing attention",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecision(args, imports.Flag(reviewNotes))
	},
}

func runDecision(args []string, d imports.Decision) error {
	sessionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id %q", args[0])
	}
	itemID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[1])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	it, err := a.imports.UpdateItemDecision(sessionID, itemID, d)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(it)
	}
	fmt.Printf("Item %d: %s\n", it.ID, it.Status)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{approveCmd, rejectCmd, flagCmd} {
		c.Flags().StringVar(&reviewNotes, "notes", "", "Review notes to record on the item")
	}
	approveCmd.Flags().Int64Var(&approveMatch, "match", 0, "Catalog entry id to merge into")

	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(flagCmd)
}

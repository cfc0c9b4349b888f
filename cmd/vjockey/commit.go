package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit <session-id>",
	Short: "Apply a session's approved items to the catalog",
	Long: `Apply every approved item in a session to the catalog.

Approved items either create new catalog entries or merge into existing
ones. A failed item is flagged for attention and the commit continues.
Committing an already completed session is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id %q", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.imports.Commit(sessionID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(sess)
		}
		fmt.Printf("Session %d: %s\n", sess.ID, sess.Status)
		fmt.Printf("Created %d catalog entries\n", len(sess.CreatedVideoIDs))
		return nil
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback <session-id>",
	Short: "Undo a session's catalog additions",
	Long: `Delete every catalog entry a session's commit created.

Entries that existed before the import are kept, even when the commit
updated them. Rolling back twice is harmless.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id %q", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.imports.Rollback(sessionID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(sess)
		}
		fmt.Printf("Session %d: %s\n", sess.ID, sess.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(rollbackCmd)
}

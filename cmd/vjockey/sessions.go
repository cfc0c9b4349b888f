package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vjockey/vjockey/internal/imports"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [id]",
	Short: "List import sessions, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			sess, err := a.imports.RefreshSession(id)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(sess)
			}
			printSession(sess)
			return nil
		}

		sessions, err := a.imports.ListSessions()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(sessions)
		}
		if len(sessions) == 0 {
			fmt.Println("No import sessions")
			return nil
		}

		rows := make([][]string, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, []string{
				strconv.FormatInt(s.ID, 10),
				string(s.Status),
				s.StartedAt.Format("2006-01-02 15:04"),
				truncate(s.RootPath, 48),
				s.Summary,
			})
		}
		fmt.Println(renderTable(
			[]string{"ID", "STATUS", "STARTED", "ROOT", "SUMMARY"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
		))
		return nil
	},
}

func printSession(s *imports.Session) {
	fmt.Printf("Session:   %d\n", s.ID)
	fmt.Printf("Status:    %s\n", s.Status)
	fmt.Printf("Root:      %s\n", s.RootPath)
	if s.StartedBy != "" {
		fmt.Printf("Started by: %s\n", s.StartedBy)
	}
	fmt.Printf("Started:   %s\n", s.StartedAt.Format("2006-01-02 15:04:05"))
	if s.CompletedAt != nil {
		fmt.Printf("Completed: %s\n", s.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Summary:   %s\n", s.Summary)
	if len(s.CreatedVideoIDs) > 0 {
		fmt.Printf("Created:   %d catalog entries\n", len(s.CreatedVideoIDs))
	}
	if s.ErrorMessage != "" {
		fmt.Printf("Error:     %s\n", s.ErrorMessage)
	}
}

var itemsCmd = &cobra.Command{
	Use:   "items <session-id>",
	Short: "List the items of an import session",
	Args:  cobra.ExactArgs(1),
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

		items, err := a.imports.ListItems(sessionID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(items)
		}
		if len(items) == 0 {
			fmt.Println("No items in session")
			return nil
		}

		rows := make([][]string, 0, len(items))
		for _, it := range items {
			rows = append(rows, []string{
				strconv.FormatInt(it.ID, 10),
				truncate(it.RelPath, 44),
				itemLabel(it),
				string(it.Status),
				duplicateCell(it),
				confidenceCell(it),
			})
		}
		fmt.Println(renderTable(
			[]string{"ID", "FILE", "PARSED", "STATUS", "DUPLICATE", "MATCH"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
		))
		return nil
	},
}

func itemLabel(it *imports.Item) string {
	artist, title := "", ""
	if it.Artist != nil {
		artist = *it.Artist
	}
	if it.Title != nil {
		title = *it.Title
	}
	switch {
	case artist != "" && title != "":
		return truncate(artist+" - "+title, 40)
	case title != "":
		return truncate(title, 40)
	default:
		return ""
	}
}

func duplicateCell(it *imports.Item) string {
	if it.DuplicateStatus == imports.DuplicateNone {
		return ""
	}
	s := string(it.DuplicateStatus)
	if it.DuplicateOfID != nil {
		s += fmt.Sprintf(" (#%d)", *it.DuplicateOfID)
	}
	return s
}

func confidenceCell(it *imports.Item) string {
	if it.SuggestedVideoID == nil {
		return ""
	}
	return fmt.Sprintf("#%d %.0f%%", *it.SuggestedVideoID, it.Confidence*100)
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(itemsCmd)
}

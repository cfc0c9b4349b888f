package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the video catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		videos, err := a.catalog.ListVideos()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(videos)
		}
		if len(videos) == 0 {
			fmt.Println("Catalog is empty")
			return nil
		}

		rows := make([][]string, 0, len(videos))
		for _, v := range videos {
			year := ""
			if v.Year > 0 {
				year = strconv.Itoa(v.Year)
			}
			duration := ""
			if v.Duration > 0 {
				duration = fmt.Sprintf("%d:%02d", v.Duration/60, v.Duration%60)
			}
			rows = append(rows, []string{
				strconv.FormatInt(v.ID, 10),
				truncate(v.Artist, 28),
				truncate(v.Title, 36),
				year,
				v.Resolution(),
				duration,
				truncate(v.FilePath, 44),
			})
		}
		fmt.Println(renderTable(
			[]string{"ID", "ARTIST", "TITLE", "YEAR", "RES", "LENGTH", "PATH"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

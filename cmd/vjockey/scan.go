package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vjockey/vjockey/internal/imports"
)

var (
	scanNoRecurse       bool
	scanExtensions      []string
	scanNoHash          bool
	scanRefreshMetadata bool
	scanStartedBy       string
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a folder into a new import session",
	Long: `Scan a folder of video files into a new review session.

With no path, the configured library root is scanned. Each file is
fingerprinted, matched against the catalog, and classified for
duplicates; nothing is written to the catalog until commit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		opts := imports.StartOptions{
			IncludeSubdirs:  !scanNoRecurse,
			Extensions:      scanExtensions,
			ComputeHashes:   true,
			RefreshMetadata: scanRefreshMetadata,
			StartedBy:       scanStartedBy,
		}
		if len(args) > 0 {
			opts.RootPath = args[0]
		}
		if len(opts.Extensions) == 0 {
			opts.Extensions = a.cfg.Import.Extensions
		}
		if a.cfg.Import.ComputeHashes != nil {
			opts.ComputeHashes = *a.cfg.Import.ComputeHashes
		}
		if scanNoHash {
			opts.ComputeHashes = false
		}
		if !cmd.Flags().Changed("refresh-metadata") {
			opts.RefreshMetadata = a.cfg.Import.RefreshMetadata
		}

		var processed atomic.Int64
		opts.Progress = func(n int, path string) {
			processed.Store(int64(n))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var sess *imports.Session
		g, gctx := errgroup.WithContext(ctx)
		done := make(chan struct{})
		g.Go(func() error {
			defer close(done)
			var err error
			sess, err = a.imports.StartImport(gctx, opts)
			return err
		})
		g.Go(func() error {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return nil
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					fmt.Fprintf(os.Stderr, "scanned %d files...\n", processed.Load())
				}
			}
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(sess)
		}
		fmt.Printf("Session %d: %s\n", sess.ID, sess.Summary)
		if sess.ErrorMessage != "" {
			fmt.Printf("Warning: %s\n", sess.ErrorMessage)
		}
		fmt.Printf("Review with: vjockey items %d\n", sess.ID)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanNoRecurse, "no-recurse", false, "Scan only the top-level folder")
	scanCmd.Flags().StringSliceVar(&scanExtensions, "ext", nil, "File extensions to scan (default .mp4,.mkv,.mov,.avi,.webm)")
	scanCmd.Flags().BoolVar(&scanNoHash, "no-hash", false, "Skip content fingerprinting")
	scanCmd.Flags().BoolVar(&scanRefreshMetadata, "refresh-metadata", false, "Probe files with ffprobe")
	scanCmd.Flags().StringVar(&scanStartedBy, "by", "", "Identifier recorded on the session")

	rootCmd.AddCommand(scanCmd)
}

package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/vjockey/vjockey/internal/catalog"
	"github.com/vjockey/vjockey/internal/config"
	"github.com/vjockey/vjockey/internal/imports"
	"github.com/vjockey/vjockey/internal/metadata"
	"github.com/vjockey/vjockey/internal/migrations"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "vjockey",
	Short: "Curated music video catalog and import review tool",
	Long: `vjockey - curated music video catalog

Scan folders of music videos into review sessions, detect duplicates
against the catalog, and commit approved items.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("vjockey {{.Version}}\n")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// app holds everything a subcommand needs: config, an open database,
// and the services built on it.
type app struct {
	cfg     *config.Config
	db      *sql.DB
	log     *slog.Logger
	imports *imports.Service
	catalog *catalog.Store
}

func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	svc := imports.NewService(db, imports.Config{
		LibraryRoot:    cfg.Library.Root,
		CandidateLimit: cfg.Import.CandidateLimit,
	}, metadata.NewFFProbe(""), logger.With("component", "imports"))

	return &app{
		cfg:     cfg,
		db:      db,
		log:     logger,
		imports: svc,
		catalog: catalog.NewStore(db),
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}

// Package cli implements the happy-days CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/happy-days/internal/config"
	"github.com/rcliao/happy-days/internal/index"
	"github.com/rcliao/happy-days/internal/store"
)

var (
	configPath string
	dirFlag    string
	indexFlag  string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "happy-days",
	Short: "A photo and voice memory journal",
	Long: "Keep memories as a photo, an optional voice note and its transcript. " +
		"Plain files on disk, searchable by what you said.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.happy-days/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Memory directory (default: $HAPPY_DAYS_DIR or ~/.happy-days/memories)")
	RootCmd.PersistentFlags().StringVar(&indexFlag, "index", "", "Index database (default: $HAPPY_DAYS_INDEX or ~/.happy-days/index.db)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dirFlag != "" {
		cfg.Dir = dirFlag
	}
	if indexFlag != "" {
		cfg.IndexPath = indexFlag
	}
	return cfg, nil
}

// app bundles what every command needs.
type app struct {
	cfg   *config.Config
	index *index.SQLiteIndex
	store *store.FileStore
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	idx, err := index.NewSQLiteIndex(cfg.IndexPath)
	if err != nil {
		return nil, err
	}
	s, err := store.NewFileStore(store.Options{
		Dir:         cfg.Dir,
		Index:       idx,
		ThumbWidth:  cfg.ThumbWidth,
		JPEGQuality: cfg.JPEGQuality,
	})
	if err != nil {
		idx.Close()
		return nil, err
	}
	return &app{cfg: cfg, index: idx, store: s}, nil
}

func (a *app) Close() error {
	return a.index.Close()
}

func mustOpenApp() *app {
	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	return a
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

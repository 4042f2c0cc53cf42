package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"egzamin-backend/lib/configutil"
	"egzamin-backend/lib/sqliteutil"
	"egzamin-backend/services/ingest"
	"egzamin-backend/services/ingest/db"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "ingest scrapes exam questions and practice archives into the content database.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

type DatabaseConfig struct {
	File string `json:"file"`
}

type Config struct {
	Database    DatabaseConfig `json:"database"`
	DownloadDir string         `json:"download_dir"`
	StaticDir   string         `json:"static_dir"`
}

// openPipeline reads config.json5 and builds the run context every
// subcommand shares.
func openPipeline() *ingest.Pipeline {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		fatal("failed to read config", err)
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "downloaded_practice"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "static"
	}

	database, err := sqliteutil.OpenDB(db.Schema, cfg.Database.File)
	if err != nil {
		fatal("failed to open database", err)
	}

	return ingest.New(database, ingest.Config{
		DownloadDir: cfg.DownloadDir,
		StaticDir:   cfg.StaticDir,
	})
}

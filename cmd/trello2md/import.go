// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trello2md/internal/fetch"
	"github.com/pdiddy/trello2md/internal/history"
	"github.com/pdiddy/trello2md/internal/importer"
	"github.com/pdiddy/trello2md/internal/vault"
)

// appFs backs both the input files and the output vault.
var appFs = afero.NewOsFs()

var importCmd = &cobra.Command{
	Use:   "import [files or directories...]",
	Short: "Convert Trello board exports to Markdown notes",
	Long: `Import reads one or more Trello board exports and writes, under the
output folder, one folder per board holding a note per card and a board
summary note. Directories contribute their .json files.

Archived cards and lists are skipped unless --include-archived is set.
Uploaded attachments are downloaded into <board>/Attachments only with
--download-attachments; this needs a Trello API key and token, read from
--trello-key/--trello-token, the config file, or .secrets/trello-api-key
and .secrets/trello-token.

Files are processed one at a time. Interrupting the command stops it
before the next file starts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringP("output", "o", "", "output folder (one subfolder per board)")
	f.Bool("include-archived", false, "include archived cards and lists")
	f.Bool("download-attachments", false, "download uploaded attachments")
	f.String("trello-key", "", "Trello API key for attachment downloads")
	f.String("trello-token", "", "Trello API token for attachment downloads")
	f.Duration("timeout", 0, "HTTP request timeout (default 60s)")
	f.String("history-db", "", "import history database (default in the user cache dir)")
	f.Bool("no-history", false, "do not record this run in the import history")

	viper.BindPFlag("output_dir", f.Lookup("output"))
	viper.BindPFlag("include_archived", f.Lookup("include-archived"))
	viper.BindPFlag("download_attachments", f.Lookup("download-attachments"))
	viper.BindPFlag("trello.api_key", f.Lookup("trello-key"))
	viper.BindPFlag("trello.token", f.Lookup("trello-token"))
	viper.BindPFlag("http.timeout", f.Lookup("timeout"))

	setDefaults(viper.GetViper())
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadImportConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("history-db"); p != "" {
		cfg.HistoryPath = p
	}
	if off, _ := cmd.Flags().GetBool("no-history"); off {
		cfg.HistoryPath = ""
	}

	// The output target is checked once, before any file is read.
	if cfg.OutputDir == "" {
		return fmt.Errorf("%w: pass --output or set output_dir", importer.ErrNoOutputTarget)
	}
	out, err := vault.NewWithFs(appFs, cfg.OutputDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder importer.Recorder
	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("import history disabled")
		} else {
			defer store.Close()
			run, err := store.StartRun(ctx, out.Root(), cfg.ImportOptions)
			if err != nil {
				return err
			}
			defer run.Finish(context.WithoutCancel(ctx))
			recorder = run
			logger.Debug().Str("run", run.ID).Msg("recording import history")
		}
	}

	reporter := importer.NewConsoleReporter(ctx, os.Stdout, recorder, logger)
	options := []importer.Option{importer.WithLogger(logger)}

	if cfg.DownloadAttachments {
		if !cfg.Auth.Configured() {
			logger.Warn().Msg("no Trello API key/token configured; uploaded attachments will likely fail to download")
		}
		client := &http.Client{Timeout: cfg.HTTP.Timeout}
		fetcher := fetch.New(client, cfg.HTTP, cfg.Auth,
			fetch.WithCacheSize(cfg.AttachmentCacheSize),
			fetch.WithLogger(logger),
		)
		options = append(options, importer.WithFetcher(fetcher))
	}

	imp := importer.NewTrello(importer.FileSource{Fs: appFs}, out, reporter, cfg.ImportOptions, options...)

	files, err := importer.ExpandInputs(appFs, args, imp.Extensions())
	if err != nil {
		return err
	}

	result, err := imp.Import(ctx, files)
	if err != nil {
		return err
	}
	reporter.Summary(result)

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed to import", result.Failed)
	}
	return nil
}

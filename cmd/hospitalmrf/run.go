package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/gyeh/hospitalmrf/internal/config"
	"github.com/gyeh/hospitalmrf/internal/indexfile"
	"github.com/gyeh/hospitalmrf/internal/ingest"
	"github.com/gyeh/hospitalmrf/internal/loader"
	"github.com/gyeh/hospitalmrf/internal/pipeline"
	"github.com/gyeh/hospitalmrf/internal/progress"
)

func newRunCmd() *cobra.Command {
	var (
		indexFilePath string
		urls          []string
		credFile      string
		dbHost        string
		dbPort        int
		dbUser        string
		dbPassword    string
		dbName        string
		batchSize     int
		maxBuffered   int
		replace       bool
		debug         bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download, transform, and load hospital MRF files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if credFile != "" {
				if err := config.LoadCredentialFile(&cfg, credFile); err != nil {
					return err
				}
			}
			config.ApplyEnv(&cfg)
			if cmd.Flags().Changed("host") {
				cfg.DBHost = dbHost
			}
			if cmd.Flags().Changed("port") {
				cfg.DBPort = dbPort
			}
			if cmd.Flags().Changed("user") {
				cfg.DBUser = dbUser
			}
			if cmd.Flags().Changed("password") {
				cfg.DBPassword = dbPassword
			}
			if cmd.Flags().Changed("dbname") {
				cfg.DBName = dbName
			}
			if cmd.Flags().Changed("batch") {
				cfg.BatchSize = batchSize
			}
			if cmd.Flags().Changed("max-buffered") {
				cfg.MaxBuffered = maxBuffered
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}

			errLog := progress.NewErrorLogger(cfg.Debug)

			resolvedURLs := urls
			if indexFilePath != "" {
				f, err := os.Open(indexFilePath)
				if err != nil {
					return fmt.Errorf("opening index file: %w", err)
				}
				defer f.Close()
				discovered, err := indexfile.ParseURLs(f)
				if err != nil {
					return fmt.Errorf("parsing index file: %w", err)
				}
				resolvedURLs = append(resolvedURLs, discovered...)
			}
			if len(resolvedURLs) == 0 {
				return fmt.Errorf("no URLs given: pass --url one or more times or --index-file")
			}

			ctx, cancel := withShutdownSignal()
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.ConnString())
			if err != nil {
				log.Fatalf("failed to connect to database: %v", err)
			}
			defer pool.Close()
			if err := pool.Ping(ctx); err != nil {
				log.Fatalf("failed to ping database: %v", err)
			}

			mgr := progress.NewManager(len(resolvedURLs))
			opts := loader.Options{BatchSize: cfg.BatchSize, ReplaceHospitalCharges: replace}

			idx := 0
			summary := pipeline.Run(ctx, resolvedURLs, pipeline.Options{
				MaxBuffered:      cfg.MaxBuffered,
				TargetExtensions: []string{".csv", ".json"},
			}, func(ctx context.Context, payloadPath string) error {
				tr := mgr.NewTracker(idx, payloadPath)
				idx++
				result, err := ingest.File(ctx, pool, payloadPath, opts, tr)
				if err != nil {
					errLog.Error("ingest failed", slog.String("file", payloadPath), slog.Any("error", err))
					return err
				}
				tr.Done()
				errLog.Info("loaded file", slog.String("file", payloadPath),
					slog.Int("services", result.Services),
					slog.Int("standard_charges", result.StandardCharge),
					slog.Int("payer_charges", result.PayerCharges))
				return nil
			})

			fmt.Printf("done: %d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("run: %d of %d files failed", summary.Failed, len(resolvedURLs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indexFilePath, "index-file", "", "path to an index file listing mrf-url entries")
	cmd.Flags().StringArrayVar(&urls, "url", nil, "a direct MRF file URL (repeatable)")
	cmd.Flags().StringVar(&credFile, "cred-file", "", "path to a key=value database credential file")
	cmd.Flags().StringVar(&dbHost, "host", "localhost", "PostgreSQL host")
	cmd.Flags().IntVar(&dbPort, "port", 5432, "PostgreSQL port")
	cmd.Flags().StringVar(&dbUser, "user", "postgres", "PostgreSQL user")
	cmd.Flags().StringVar(&dbPassword, "password", "", "PostgreSQL password")
	cmd.Flags().StringVar(&dbName, "dbname", "hospital_pricing", "PostgreSQL database name")
	cmd.Flags().IntVar(&batchSize, "batch", config.DefaultBatchSize, "records committed per transaction")
	cmd.Flags().IntVar(&maxBuffered, "max-buffered", 1, "files downloaded ahead of processing")
	cmd.Flags().BoolVar(&replace, "replace", true, "clear each hospital's existing charges before loading")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level structured logging")

	return cmd
}

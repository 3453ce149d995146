package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/docgen/internal/blob"
	"github.com/jonathan/docgen/internal/config"
	"github.com/jonathan/docgen/internal/fetch"
	"github.com/jonathan/docgen/internal/pipeline"
	"github.com/jonathan/docgen/internal/render"
	"github.com/jonathan/docgen/internal/server"
	"github.com/jonathan/docgen/internal/store"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes endpoints for creating generation requests and advancing their pipelines one step at a time.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := config.FromEnv()
	if serveConfigPath != "" {
		fileCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	generators, cleanup, err := buildGenerators(ctx, cfg)
	if err != nil {
		return err
	}

	recordStore, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		cleanup()
		return err
	}

	if cfg.S3Bucket == "" {
		cleanup()
		closeStore()
		return fmt.Errorf("S3_BUCKET is required for serve")
	}
	blobStore, err := blob.NewS3Store(ctx, blob.S3Config{
		EndpointURL: cfg.S3EndpointURL,
		Region:      cfg.S3Region,
		AccessKey:   cfg.S3AccessKey,
		SecretKey:   cfg.S3SecretKey,
		Bucket:      cfg.S3Bucket,
	})
	if err != nil {
		cleanup()
		closeStore()
		return fmt.Errorf("failed to create blob store: %w", err)
	}

	engine, err := pipeline.NewEngine(pipeline.Options{
		Store:      recordStore,
		Generators: generators,
		Renderer:   render.NewChrome(pdfTimeout(cfg)),
		Blob:       blobStore,
		Fetcher:    fetch.NewFetcher(0),
		Notifier:   pipeline.LogNotifier{},
		Branding:   brandingFromConfig(cfg),
		LinkTTL:    linkTTL(cfg),
	})
	if err != nil {
		cleanup()
		closeStore()
		return fmt.Errorf("failed to create engine: %w", err)
	}

	srv := server.New(server.Config{Port: cfg.Port}, engine)
	srv.OnShutdown(cleanup)
	srv.OnShutdown(closeStore)
	return srv.Start()
}

// buildStore connects to Postgres when a database URL is configured and
// falls back to the in-memory store otherwise.
func buildStore(ctx context.Context, cfg config.Config) (store.RecordStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Println("[serve] DATABASE_URL not set, using in-memory store")
		return store.NewMemory(), func() {}, nil
	}

	pg, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return pg, pg.Close, nil
}

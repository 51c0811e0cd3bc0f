package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/de-tools/ngo-atlas/pkg/adapters"
	"github.com/de-tools/ngo-atlas/pkg/models/store"
	"github.com/de-tools/ngo-atlas/pkg/server"
	"github.com/de-tools/ngo-atlas/pkg/services/ingest"
	"github.com/de-tools/ngo-atlas/pkg/services/ranking"
	"github.com/de-tools/ngo-atlas/pkg/store/duckdb"
	duckdbfinance "github.com/de-tools/ngo-atlas/pkg/store/duckdb/finance"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	recordsPath string
	dbPath      string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the nonprofit ranking service",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the ranking configuration file (defaults to the published methodology)")
	rootCmd.Flags().StringVar(&recordsPath, "records", "",
		"Optional scraped financial-records JSON file to load into the store on startup")
	rootCmd.Flags().StringVar(&dbPath, "db", "ngo-atlas.db", "Path to the DuckDB database file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg := ranking.DefaultConfig()
	if cfgPath != "" {
		loaded, err := ranking.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		cfg = *loaded
		logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	}

	engine, err := ranking.NewEngine(cfg)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	financeStore, err := duckdbfinance.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create finance store: %w", err)
	}

	if recordsPath != "" {
		if err := loadRecords(ctx, financeStore, recordsPath, logger); err != nil {
			return err
		}
	}

	logger.Info().Msgf("Configured turnover bands:")
	for _, band := range cfg.Bands {
		logger.Info().Msgf("  %s", band.String())
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Engine:  engine,
			Finance: financeStore,
		},
	})

	return api.Start()
}

func loadRecords(ctx context.Context, financeStore duckdbfinance.Store, path string, logger zerolog.Logger) error {
	records, warnings, err := ingest.ReadRecordsFile(path)
	if err != nil {
		return fmt.Errorf("failed to load records file: %w", err)
	}
	for _, w := range warnings {
		logger.Warn().Str("org_id", w.OrgID).Int("year", w.Year).Str("reason", w.Reason).
			Msg("rejected scraped record")
	}

	rows := make([]store.FinancialRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, adapters.MapDomainRecordToStore(r))
	}
	if err := financeStore.SaveRecords(ctx, rows); err != nil {
		return fmt.Errorf("failed to persist records: %w", err)
	}

	logger.Info().Int("records", len(rows)).Str("path", path).Msg("loaded financial records")
	return nil
}

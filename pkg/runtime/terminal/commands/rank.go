package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/de-tools/ngo-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/ngo-atlas/pkg/services/ingest"
	"github.com/de-tools/ngo-atlas/pkg/services/ranking"
	"github.com/spf13/cobra"
)

type RankCmd struct {
	recordsPath string
	configPath  string
	outPath     string
	reporter    *export.Reporter
}

func NewRankCmd(reporter *export.Reporter) *cobra.Command {
	rc := &RankCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank organizations from a scraped financial-records file",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.recordsPath, "records", "", "Path to the financial records JSON file")
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Path to the ranking configuration (defaults to the published methodology)")
	cmd.Flags().StringVar(&rc.outPath, "out", "", "Write the ranked table as CSV to this path instead of printing it")

	_ = cmd.MarkFlagRequired("records")

	return cmd
}

func (rc *RankCmd) run(cmd *cobra.Command, args []string) error {
	cfg := ranking.DefaultConfig()
	if rc.configPath != "" {
		loaded, err := ranking.LoadConfig(rc.configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	engine, err := ranking.NewEngine(cfg)
	if err != nil {
		return err
	}

	records, ingestWarnings, err := ingest.ReadRecordsFile(rc.recordsPath)
	if err != nil {
		return err
	}

	run, err := engine.Run(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("ranking batch failed: %w", err)
	}
	run.Warnings = append(ingestWarnings, run.Warnings...)

	if rc.outPath == "" {
		return rc.reporter.Handle(run)
	}

	f, err := os.Create(rc.outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, run.Results); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d ranked organizations to %s\n", len(run.Results), rc.outPath)
	reportWarnings(cmd, run.Warnings)
	return nil
}

func reportWarnings(cmd *cobra.Command, warnings []domain.RecordWarning) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: rejected record %s/%d: %s\n", w.OrgID, w.Year, w.Reason)
	}
}

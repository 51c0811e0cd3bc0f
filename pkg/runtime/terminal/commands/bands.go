package commands

import (
	"fmt"

	"github.com/de-tools/ngo-atlas/pkg/services/ranking"
	"github.com/spf13/cobra"
)

type BandsCmd struct {
	configPath string
}

func NewBandsCmd() *cobra.Command {
	bc := &BandsCmd{}
	cmd := &cobra.Command{
		Use:   "bands",
		Short: "List the configured turnover bands",
		RunE:  bc.run,
	}

	cmd.Flags().StringVar(&bc.configPath, "config", "", "Path to the ranking configuration (defaults to the published methodology)")

	return cmd
}

func (bc *BandsCmd) run(cmd *cobra.Command, args []string) error {
	cfg := ranking.DefaultConfig()
	if bc.configPath != "" {
		loaded, err := ranking.LoadConfig(bc.configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	for _, band := range cfg.Bands {
		fmt.Fprintln(cmd.OutOrStdout(), band.String())
	}
	return nil
}

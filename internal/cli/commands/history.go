package commands

import (
	logger "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ctp/internal/config"
	"ctp/internal/storage"
	"ctp/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config, formatter *ui.Formatter) *HistoryCommand {
	return &HistoryCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	history, err := storage.OpenHistory(hc.config.GetHistoryPath())
	if err != nil {
		return err
	}
	defer history.Close()

	flags := hc.config.Flags
	if flags.Prune > 0 {
		if err := history.Prune(flags.Prune); err != nil {
			return err
		}
		logger.Info().Int("keep", flags.Prune).Msg("Pruned run history")
	}

	entries, err := history.Entries(flags.Limit)
	if err != nil {
		return err
	}
	hc.formatter.PrintHistory(entries)
	return nil
}

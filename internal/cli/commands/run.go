package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	logger "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ctp/internal/config"
	"ctp/internal/domain"
	"ctp/internal/execution"
	"ctp/internal/harness"
	"ctp/internal/report"
	"ctp/internal/storage"
	"ctp/internal/ui"
)

// ErrCasesFailed is returned by run when at least one case failed, so the process exits non-zero
var ErrCasesFailed = errors.New("characterization cases failed")

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	source    *caseSource
	executor  *execution.WorkerPool
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
	scheduler execution.Scheduler[harness.Case]
	progress  func(count int) *ui.ProgressBar
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	source *caseSource,
	executor *execution.WorkerPool,
	st storage.Storage,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		source:    source,
		executor:  executor,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
		scheduler: execution.NewRoundRobinScheduler[harness.Case](),
		progress:  ui.NewProgressBar,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	shard, err := config.ParseShard(rc.config.Flags.Shard)
	if err != nil {
		return err
	}

	cases, err := rc.source.Cases()
	if err != nil {
		return err
	}
	cases = execution.Shard(rc.scheduler, cases, shard)

	if len(cases) == 0 {
		color.Yellow("No cases to execute")
		return nil
	}
	logger.Info().Int("cases", len(cases)).Int("workers", rc.config.Processors).Str("shard", rc.config.Flags.Shard).Msg("Running cases")

	// Create and set progress bar
	rc.executor.SetProgress(rc.progress(len(cases)))

	// Execute cases. An interrupted run still records the cases that finished.
	results, duration, execErr := rc.executor.Execute(cmd.Context(), cases)
	if len(results) == 0 {
		return execErr
	}

	run := report.Run{
		ID:       newRunID(),
		Results:  results,
		Duration: duration,
		Workers:  rc.config.Processors,
		Finished: time.Now(),
	}
	output := report.Output(run)

	// Save results
	if err := rc.storage.Save(output); err != nil {
		return fmt.Errorf("failed to save case results: %w", err)
	}
	if err := rc.appendHistory(output); err != nil {
		// The journal is informational, a broken one must not fail the run
		logger.Warn().Err(err).Msg("Could not record run in history")
	}
	if path := rc.config.Flags.JUnitPath; path != "" {
		if err := report.WriteJUnitFile(path, run); err != nil {
			return fmt.Errorf("failed to write JUnit report: %w", err)
		}
	}

	// Print stats
	rc.formatter.PrintMetaStats(output)

	if execErr != nil {
		logger.Warn().Err(execErr).Int("recorded", len(results)).Msg("Run interrupted")
		return fmt.Errorf("run interrupted after %d case(s): %w", len(results), execErr)
	}
	if output.Meta.FailedCases == 0 {
		return nil
	}
	if rc.config.Flags.OpenFails {
		if err := rc.viewer.View(output); err != nil {
			return err
		}
	}
	return ErrCasesFailed
}

func (rc *RunCommand) appendHistory(output *domain.ResultsOutput) error {
	history, err := storage.OpenHistory(rc.config.GetHistoryPath())
	if err != nil {
		return err
	}
	defer history.Close()
	return history.Append(report.HistoryEntry(output))
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

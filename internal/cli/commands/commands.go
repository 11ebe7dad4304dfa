package commands

import (
	"io"

	"github.com/spf13/cobra"

	"ctp/internal/cli"
	"ctp/internal/config"
	"ctp/internal/execution"
	"ctp/internal/logging"
	"ctp/internal/storage"
	"ctp/internal/suites"
	"ctp/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Fails   *FailsCommand
	History *HistoryCommand
}

// NewCommands creates all commands with dependencies.
// cfg is filled in by the commands' PreRunE once flags are parsed.
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	// Initialize dependencies
	runner := execution.NewRunner(cfg)
	executor := execution.NewWorkerPool(cfg, runner)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(out)
	errorViewer := ui.NewErrorViewer(jsonStorage)
	source := &caseSource{config: cfg, storage: jsonStorage}

	return &Commands{
		Run:     NewRunCommand(cfg, source, executor, jsonStorage, formatter, errorViewer),
		List:    NewListCommand(cfg, source, jsonStorage, formatter),
		Fails:   NewFailsCommand(cfg, jsonStorage, errorViewer),
		History: NewHistoryCommand(cfg, formatter),
	}
}

// loadConfig returns a PreRunE that layers the config file, environment and flags into cfg
func loadConfig(flags *cli.Flags, cfg *config.Config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded

		if err := logging.Setup(cfg.LogLevel); err != nil {
			return err
		}
		return suites.Setup()
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to the config file (default ./ctp.toml)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run characterization cases in parallel",
		Long:    "Collect built-in and case file cases, run them on parallel workers and save the failures",
		RunE:    c.Run.Execute,
		PreRunE: loadConfig(flags, cfg),
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of workers to use (default from config, 4)")
	addSelectionFlags(runCmd, flags)
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first case failure")
	runCmd.Flags().BoolVar(&flags.Failed, "failed", false, "Run only cases that failed in the last run")
	runCmd.Flags().StringVar(&flags.Shard, "shard", "", "Run one shard of the selected cases, as i/n")
	runCmd.Flags().StringVar(&flags.JUnitPath, "junit", "", "Also write a JUnit XML report to this path")
	runCmd.Flags().BoolVar(&flags.OpenFails, "open-fails", false, "Open the fails viewer when the run finishes with failures")
	runCmd.Flags().IntVar(&flags.Repeat, "repeat", 0, "Run every case at least this many times")
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Timeout for cases that do not set their own (default from config, 4s)")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List characterization cases",
		Long:    "Collect and list cases without running them, marking those that failed in the last run",
		RunE:    c.List.Execute,
		PreRunE: loadConfig(flags, cfg),
	}
	addSelectionFlags(listCmd, flags)
	listCmd.Flags().BoolVar(&flags.Operations, "ops", false, "List the operations case files can call instead of cases")
	rootCmd.AddCommand(listCmd)

	// Fails command
	failsCmd := &cobra.Command{
		Use:     "fails",
		Short:   "View case failures interactively",
		Long:    "Display case failures from the last run in an interactive viewer",
		RunE:    c.Fails.Execute,
		PreRunE: loadConfig(flags, cfg),
	}
	rootCmd.AddCommand(failsCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "Show previous runs",
		Long:    "Print the journal of previous runs, newest last",
		RunE:    c.History.Execute,
		PreRunE: loadConfig(flags, cfg),
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", 10, "Number of runs to show (0 shows all)")
	historyCmd.Flags().IntVar(&flags.Prune, "prune", 0, "Keep only this many most recent runs")
	rootCmd.AddCommand(historyCmd)
}

func addSelectionFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g. 'uuid/*' or '*overflow*')")
	cmd.Flags().StringSliceVarP(&flags.Suites, "suite", "s", nil, "Only cases of these suites")
	cmd.Flags().StringSliceVar(&flags.Partitions, "partition", nil, "Only cases probing these partitions: null, empty, boundary, overflow, malformed, happy")
	cmd.Flags().StringVarP(&flags.CasesPath, "cases", "c", "", "Directory to load case files from (default ./cases)")
	cmd.Flags().BoolVar(&flags.NoBuiltin, "no-builtin", false, "Skip built-in suites, run case files only")
}

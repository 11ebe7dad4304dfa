package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ctp/internal/catalog"
	"ctp/internal/config"
	"ctp/internal/storage"
	"ctp/internal/suites"
	"ctp/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	source    *caseSource
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	source *caseSource,
	st storage.Storage,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		source:    source,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	if lc.config.Flags.Operations {
		lc.formatter.PrintOperations(operationGroups(suites.All(), catalog.OperationNames()))
		return nil
	}

	cases, err := lc.source.Cases()
	if err != nil {
		return err
	}

	if len(cases) == 0 {
		color.Yellow("No cases found")
		return nil
	}

	// Failed markers are best effort; without a previous run nothing is marked
	var failedIDs map[string]struct{}
	if previous, err := lc.storage.Load(); err == nil {
		failedIDs = make(map[string]struct{}, len(previous.Details))
		for _, id := range previous.FailedIDs() {
			failedIDs[id] = struct{}{}
		}
	}

	lc.formatter.PrintCaseList(cases, failedIDs)
	return nil
}

// operationGroups groups the registered operation names under the suite that contributes them.
// Names no suite claims are listed last under "other".
func operationGroups(all []suites.Suite, names []string) []ui.OperationGroup {
	owner := make(map[string]int)
	groups := make([]ui.OperationGroup, 0, len(all)+1)
	for _, s := range all {
		if len(s.Operations) == 0 {
			continue
		}
		groups = append(groups, ui.OperationGroup{Suite: s.Name, Library: s.Library})
		for _, op := range s.Operations {
			owner[op.Name] = len(groups) - 1
		}
	}

	var other []string
	for _, name := range names {
		i, ok := owner[name]
		if !ok {
			other = append(other, name)
			continue
		}
		groups[i].Operations = append(groups[i].Operations, name)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Operations) > 0 {
			out = append(out, g)
		}
	}
	if len(other) > 0 {
		out = append(out, ui.OperationGroup{Suite: "other", Operations: other})
	}
	return out
}

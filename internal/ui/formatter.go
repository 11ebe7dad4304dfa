package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ctp/internal/domain"
	"ctp/internal/harness"
)

// The value column fits a UUID run ID and an RFC 3339 timestamp without truncation
const statsLabelWidth = 23
const statsValueWidth = 38

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func statsRule(left, mid, right string) string {
	return left + strings.Repeat("─", statsLabelWidth+2) + mid + strings.Repeat("─", statsValueWidth+2) + right
}

func statsBanner(title string) []string {
	inner := statsLabelWidth + statsValueWidth + 5
	pad := (inner - runewidth.StringWidth(title)) / 2
	return []string{
		"╔" + strings.Repeat("═", inner) + "╗",
		"║" + cell(strings.Repeat(" ", pad)+title, inner) + "║",
		"╚" + strings.Repeat("═", inner) + "╝",
	}
}

// PrintMetaStats displays the statistics of a run followed by the failures grouped by suite
func (f *Formatter) PrintMetaStats(output *domain.ResultsOutput) {
	meta := output.Meta

	fmt.Fprint(f.out, "\n")
	for _, line := range statsBanner("Characterization Run Statistics") {
		cyan.Fprintln(f.out, line)
	}
	fmt.Fprintln(f.out)

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Run", meta.RunID, white},
		{"Total Cases", fmt.Sprint(meta.TotalCases), white},
		{"Passed Cases", fmt.Sprint(meta.PassedCases), green},
		{"Failed Cases", fmt.Sprint(meta.FailedCases), red},
		{"Suites (failed / total)", fmt.Sprintf("%d / %d", meta.FailedSuites, meta.TotalSuites), white},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Workers", fmt.Sprint(meta.Workers), white},
		{"Timestamp", meta.Timestamp, white},
	}

	fmt.Fprintln(f.out, statsRule("┌", "┬", "┐"))
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %s │ ", cell(row.label, statsLabelWidth))
		row.c.Fprintf(f.out, "%s │\n", cell(row.value, statsValueWidth))
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, statsRule("├", "┼", "┤"))
		}
	}
	fmt.Fprintln(f.out, statsRule("└", "┴", "┘"))

	fmt.Fprintln(f.out)
	if meta.FailedCases == 0 {
		green.Fprintln(f.out, "✓ All cases passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d case(s) failed in %d suite(s)\n", meta.FailedCases, meta.FailedSuites)
	fmt.Fprintln(f.out)
	f.printFailureTree(output.Details)
}

// printFailureTree prints failures grouped under their suite
func (f *Formatter) printFailureTree(failures []domain.CaseFailure) {
	bySuite := make(map[string][]domain.CaseFailure)
	for _, failure := range failures {
		bySuite[failure.Suite] = append(bySuite[failure.Suite], failure)
	}
	suites := make([]string, 0, len(bySuite))
	for suite := range bySuite {
		suites = append(suites, suite)
	}
	sort.Strings(suites)

	for i, suite := range suites {
		lastSuite := i == len(suites)-1
		branch, indent := "├── ", "│   "
		if lastSuite {
			branch, indent = "└── ", "    "
		}
		cyan.Fprintf(f.out, "%s%s\n", branch, suite)

		cases := bySuite[suite]
		for j, failure := range cases {
			caseBranch, caseIndent := "├── ", "│   "
			if j == len(cases)-1 {
				caseBranch, caseIndent = "└── ", "    "
			}
			marker := ""
			if failure.Resolved {
				marker = " " + green.Sprint("[resolved]")
			}
			red.Fprintf(f.out, "%s%s%s%s\n", indent, caseBranch, failure.Name, marker)
			fmt.Fprintf(f.out, "%s%s  expected %s\n", indent, caseIndent, failure.Expected)
			fmt.Fprintf(f.out, "%s%s  actual   %s\n", indent, caseIndent, failure.Actual)
		}
	}
}

// PrintCaseList prints the selected cases grouped by suite.
// failedIDs is optional; cases in it are marked with [F] in red (from the last run).
func (f *Formatter) PrintCaseList(cases []harness.Case, failedIDs map[string]struct{}) {
	green.Fprintf(f.out, "Found %d case(s):\n\n", len(cases))

	bySuite := make(map[string][]harness.Case)
	var suites []string
	for _, c := range cases {
		if _, ok := bySuite[c.Suite]; !ok {
			suites = append(suites, c.Suite)
		}
		bySuite[c.Suite] = append(bySuite[c.Suite], c)
	}
	sort.Strings(suites)

	for i, suite := range suites {
		lastSuite := i == len(suites)-1
		branch, indent := "├── ", "│   "
		if lastSuite {
			branch, indent = "└── ", "    "
		}
		suiteCases := bySuite[suite]
		cyan.Fprintf(f.out, "%s%s (%d)\n", branch, suite, len(suiteCases))

		width := 0
		for _, c := range suiteCases {
			if w := runewidth.StringWidth(c.Name); w > width {
				width = w
			}
		}
		for j, c := range suiteCases {
			caseBranch := "├── "
			if j == len(suiteCases)-1 {
				caseBranch = "└── "
			}
			marker := ""
			if _, ok := failedIDs[c.ID()]; ok {
				marker = " " + red.Sprint("[F]")
			}
			source := ""
			if c.Source != "" {
				source = "  " + c.Source
			}
			fmt.Fprintf(f.out, "%s%s%s  %s%s%s\n", indent, caseBranch,
				yellow.Sprint(runewidth.FillRight(c.Name, width)),
				runewidth.FillRight(string(c.Partition), 9), source, marker)
		}
		if !lastSuite {
			fmt.Fprintln(f.out, "│")
		}
	}
}

// OperationGroup is the set of case file operations one suite contributes
type OperationGroup struct {
	Suite      string
	Library    string
	Operations []string
}

// PrintOperations lists the operations case files can call, grouped by the suite and
// library that provide them
func (f *Formatter) PrintOperations(groups []OperationGroup) {
	total := 0
	for _, g := range groups {
		total += len(g.Operations)
	}
	green.Fprintf(f.out, "%d operation(s) available to case files:\n", total)
	for i, g := range groups {
		branch, indent := "├── ", "│   "
		if i == len(groups)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintf(f.out, "%s%s", branch, g.Suite)
		if g.Library != "" {
			white.Fprintf(f.out, " (%s)", g.Library)
		}
		fmt.Fprintln(f.out)
		for j, name := range g.Operations {
			opBranch := "├── "
			if j == len(g.Operations)-1 {
				opBranch = "└── "
			}
			cyan.Fprintf(f.out, "%s%s%s\n", indent, opBranch, name)
		}
	}
}

// PrintHistory prints the run journal, newest last
func (f *Formatter) PrintHistory(entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		yellow.Fprintln(f.out, "No runs recorded yet.")
		return
	}
	fmt.Fprintf(f.out, "%s  %s  %s  %s  %s\n",
		cell("RUN", 20), cell("TIMESTAMP", 25), cell("PASSED", 7), cell("FAILED", 7), "DURATION")
	for _, e := range entries {
		failed := cell(fmt.Sprint(e.Failed), 7)
		if e.Failed > 0 {
			failed = red.Sprint(failed)
		} else {
			failed = green.Sprint(failed)
		}
		fmt.Fprintf(f.out, "%s  %s  %s  %s  %.2fs\n",
			cell(e.RunID, 20), cell(e.Timestamp, 25), cell(fmt.Sprint(e.Passed), 7), failed, e.Seconds)
		for _, id := range e.FailedIDs {
			fmt.Fprintf(f.out, "    %s %s\n", red.Sprint("✗"), id)
		}
	}
}

// Summary is a one-line description of a run for logs and the CLI footer
func Summary(meta domain.ResultsMeta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d passed, %d failed", meta.PassedCases, meta.FailedCases)
	if meta.TotalCases > 0 {
		fmt.Fprintf(&b, " of %d", meta.TotalCases)
	}
	fmt.Fprintf(&b, " in %.2fs", meta.DurationSeconds)
	return b.String()
}

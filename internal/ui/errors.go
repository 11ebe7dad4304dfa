package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	logger "github.com/rs/zerolog/log"

	"ctp/internal/domain"
)

// ResultSaver persists the viewer's resolved marks
type ResultSaver interface {
	Save(output *domain.ResultsOutput) error
}

// ErrorViewer displays case failures in an interactive TUI
type ErrorViewer struct {
	saver ResultSaver
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(saver ResultSaver) *ErrorViewer {
	return &ErrorViewer{saver: saver}
}

// ToggleResolved flips the resolved mark of failure index and persists the output
func (ev *ErrorViewer) ToggleResolved(results *domain.ResultsOutput, index int) error {
	if index < 0 || index >= len(results.Details) {
		return fmt.Errorf("no failure at index %d", index)
	}
	results.Details[index].Resolved = !results.Details[index].Resolved
	return ev.saver.Save(results)
}

// CountUnresolved returns how many failures are not yet marked resolved
func CountUnresolved(failures []domain.CaseFailure) int {
	count := 0
	for _, f := range failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

// View displays case failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.ResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No case failures found!")
		return nil
	}

	b := newFailureBrowser(ev, results)
	if err := b.app.SetRoot(b.layout(), true).SetFocus(b.list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// failureBrowser is one viewer session over a run's failures
type failureBrowser struct {
	viewer  *ErrorViewer
	results *domain.ResultsOutput

	app     *tview.Application
	list    *tview.List
	header  *tview.TextView
	stats   *tview.TextView
	details *tview.TextView
}

func newFailureBrowser(ev *ErrorViewer, results *domain.ResultsOutput) *failureBrowser {
	b := &failureBrowser{
		viewer:  ev,
		results: results,
		app:     tview.NewApplication(),
		list: tview.NewList().
			ShowSecondaryText(false).
			SetHighlightFullLine(true),
		header: tview.NewTextView().
			SetTextAlign(tview.AlignCenter).
			SetDynamicColors(true),
		stats: tview.NewTextView().
			SetDynamicColors(true).
			SetWrap(false),
		details: tview.NewTextView().
			SetDynamicColors(true).
			SetWrap(true).
			SetWordWrap(true),
	}

	for i := range results.Details {
		b.list.AddItem(b.itemText(i), "", 0, nil)
	}
	b.list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	b.list.SetChangedFunc(func(int, string, string, rune) { b.showSelected() })
	b.list.SetInputCapture(b.onListKey)
	b.details.SetInputCapture(b.onDetailsKey)

	b.refreshHeader()
	b.showSelected()
	return b
}

// layout puts the failure list left and the selected failure right, under a one-line header
func (b *failureBrowser) layout() tview.Primitive {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.stats, 2, 0, false).
		AddItem(tview.NewFlex().
			AddItem(b.details, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)

	body := tview.NewFlex().
		AddItem(b.list, 0, 1, true).
		AddItem(right, 0, 2, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.header, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)
}

func (b *failureBrowser) itemText(index int) string {
	failure := b.results.Details[index]
	name := tview.Escape(failure.ID)
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ %d. %s[white]", index+1, name)
	}
	if failure.TimedOut {
		return fmt.Sprintf("[yellow]%d.[white] %s [red]⏱[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

func (b *failureBrowser) refreshHeader() {
	b.header.SetText(fmt.Sprintf(
		" %d failures, %d unresolved | ↑↓ move, [yellow]r[white] resolve, [yellow]n[white] next unresolved, → details, ← back, q quit ",
		len(b.results.Details), CountUnresolved(b.results.Details)))
}

func (b *failureBrowser) showSelected() {
	index := b.list.GetCurrentItem()
	if index < 0 || index >= len(b.results.Details) {
		return
	}
	failure := b.results.Details[index]
	b.stats.SetText(b.viewer.formatFailureStats(failure, index+1))
	b.details.SetText(b.viewer.formatFailureDetails(failure)).ScrollToBeginning()
}

func (b *failureBrowser) toggleSelected() {
	index := b.list.GetCurrentItem()
	if index < 0 || index >= len(b.results.Details) {
		return
	}
	if err := b.viewer.ToggleResolved(b.results, index); err != nil {
		logger.Error().Err(err).Str("case", b.results.Details[index].ID).Msg("Could not save resolved mark")
	}
	b.list.SetItemText(index, b.itemText(index), "")
	b.refreshHeader()
	b.showSelected()
}

// nextUnresolved moves the selection to the next unresolved failure, wrapping around
func (b *failureBrowser) nextUnresolved() {
	count := len(b.results.Details)
	current := b.list.GetCurrentItem()
	for step := 1; step <= count; step++ {
		index := (current + step) % count
		if !b.results.Details[index].Resolved {
			b.list.SetCurrentItem(index)
			return
		}
	}
}

func (b *failureBrowser) onListKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		b.app.SetFocus(b.details)
		return nil
	case tcell.KeyCtrlC:
		b.app.Stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'r', 'R':
			b.toggleSelected()
			return nil
		case 'n':
			b.nextUnresolved()
			return nil
		case 'q':
			b.app.Stop()
			return nil
		}
	}
	return event
}

func (b *failureBrowser) onDetailsKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft, tcell.KeyEsc:
		b.app.SetFocus(b.list)
		return nil
	case tcell.KeyCtrlC:
		b.app.Stop()
		return nil
	}
	return event
}

// formatFailureDetails formats a case failure for display using tview color tags ([red], [cyan], etc.)
func (ev *ErrorViewer) formatFailureDetails(failure domain.CaseFailure) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "[red]✗ Case: %s[white]\n\n", tview.Escape(failure.ID))
	if failure.Source != "" {
		fmt.Fprintf(&builder, "[cyan]Source: %s[white]\n", tview.Escape(failure.Source))
	}
	fmt.Fprintf(&builder, "[cyan]Partition: %s[white]\n", failure.Partition)
	if failure.Attempts > 1 {
		fmt.Fprintf(&builder, "[cyan]Attempts: %d[white]\n", failure.Attempts)
	}
	if failure.TimedOut {
		fmt.Fprintf(&builder, "[red]Timed out[white]\n")
	}
	fmt.Fprintf(&builder, "\n")

	fmt.Fprintf(&builder, "[yellow]Expected:[white]\n%s\n\n", tview.Escape(failure.Expected))
	fmt.Fprintf(&builder, "[yellow]Actual:[white]\n%s\n\n", tview.Escape(failure.Actual))

	if failure.Detail != "" {
		lines := strings.Split(strings.TrimRight(failure.Detail, "\n"), "\n")
		fmt.Fprintf(&builder, "[yellow]Detail:[white]\n")
		for i, line := range lines {
			if i == maxDetailLines {
				fmt.Fprintf(&builder, "  [gray]... and %d more lines[white]\n", len(lines)-maxDetailLines)
				break
			}
			fmt.Fprintf(&builder, "  %s\n", tview.Escape(line))
		}
	}

	return builder.String()
}

const maxDetailLines = 60

// formatFailureStats formats the stats header for a case failure
func (ev *ErrorViewer) formatFailureStats(failure domain.CaseFailure, number int) string {
	name := failure.Name
	if name == "" {
		name = fmt.Sprintf("Case %d", number)
	}
	return fmt.Sprintf("[cyan]suite:[white] [yellow]%s[white] :: [yellow]%s[white]\n",
		tview.Escape(failure.Suite), tview.Escape(name))
}

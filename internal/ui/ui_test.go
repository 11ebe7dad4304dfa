package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	color.NoColor = true
}

func sampleOutput() *domain.ResultsOutput {
	return &domain.ResultsOutput{
		Meta: domain.ResultsMeta{
			RunID:           "run-1",
			TotalCases:      3,
			PassedCases:     1,
			FailedCases:     2,
			TotalSuites:     2,
			FailedSuites:    2,
			DurationSeconds: 1.5,
			Workers:         4,
			Timestamp:       "2026-10-19T10:00:00Z",
		},
		Details: []domain.CaseFailure{
			{ID: "numeric/conv", Suite: "numeric", Name: "conv", Partition: "overflow", Expected: "error OUT_OF_RANGE", Actual: "value 1"},
			{ID: "canon/sort", Suite: "canon", Name: "sort", Partition: "happy", Expected: `value "{}"`, Actual: `value "[]"`, Resolved: true},
		},
	}
}

func TestFormatter_PrintMetaStats(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf).PrintMetaStats(sampleOutput())
	out := buf.String()

	assert.Contains(t, out, "Failed Cases")
	assert.Contains(t, out, "2 / 2")
	assert.Contains(t, out, "✗ 2 case(s) failed in 2 suite(s)")
	// suites are listed alphabetically
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("canon")), bytes.Index(buf.Bytes(), []byte("numeric")))
	assert.Contains(t, out, "sort [resolved]")
	assert.Contains(t, out, "expected error OUT_OF_RANGE")
}

func TestFormatter_PrintMetaStats_FullRunID(t *testing.T) {
	output := sampleOutput()
	output.Meta.RunID = "0192a6f4-8c3e-7b41-9d2f-6a1e5c0b7d93"
	output.Meta.Timestamp = "2026-10-19T10:00:00.123456789+02:00"

	var buf bytes.Buffer
	NewFormatter(&buf).PrintMetaStats(output)
	out := buf.String()

	assert.Contains(t, out, output.Meta.RunID)
	assert.Contains(t, out, output.Meta.Timestamp)
	assert.NotContains(t, out, "…")

	// every line of the banner and the table has the same width
	var widths []int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasSuffix(line, " │") || strings.HasPrefix(line, "┌") || strings.HasPrefix(line, "╔") || strings.HasPrefix(line, "║") {
			widths = append(widths, runewidth.StringWidth(line))
		}
	}
	require.NotEmpty(t, widths)
	for _, w := range widths {
		assert.Equal(t, widths[0], w)
	}
}

func TestFormatter_PrintMetaStats_AllPassed(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf).PrintMetaStats(&domain.ResultsOutput{Meta: domain.ResultsMeta{TotalCases: 5, PassedCases: 5}})
	assert.Contains(t, buf.String(), "All cases passed")
}

func TestFormatter_PrintCaseList(t *testing.T) {
	cases := []harness.Case{
		{Suite: "numeric", Name: "conv-int8-overflow", Partition: domain.PartitionOverflow},
		{Suite: "canon", Name: "idempotent", Partition: domain.PartitionHappy, Source: "cases/canon.cases.yaml"},
		{Suite: "numeric", Name: "atoi", Partition: domain.PartitionEmpty},
	}
	var buf bytes.Buffer
	NewFormatter(&buf).PrintCaseList(cases, map[string]struct{}{"numeric/atoi": {}})
	out := buf.String()

	assert.Contains(t, out, "Found 3 case(s)")
	assert.Contains(t, out, "canon (1)")
	assert.Contains(t, out, "numeric (2)")
	assert.Contains(t, out, "cases/canon.cases.yaml")
	assert.Regexp(t, `atoi\s+empty\s+\[F\]`, out)
	assert.NotRegexp(t, `conv-int8-overflow.*\[F\]`, out)
}

func TestFormatter_PrintOperations(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf).PrintOperations([]OperationGroup{
		{Suite: "identity", Library: "github.com/google/uuid", Operations: []string{"uuid.Parse", "uuid.Validate"}},
		{Suite: "other", Operations: []string{"test.op"}},
	})
	out := buf.String()

	assert.Contains(t, out, "3 operation(s) available to case files")
	assert.Contains(t, out, "├── identity (github.com/google/uuid)")
	assert.Contains(t, out, "│   └── uuid.Validate")
	assert.Contains(t, out, "└── other\n")
	assert.Contains(t, out, "    └── test.op")
}

func TestFormatter_PrintHistory(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.PrintHistory(nil)
	assert.Contains(t, buf.String(), "No runs recorded")

	buf.Reset()
	f.PrintHistory([]domain.HistoryEntry{{RunID: "a", Passed: 3}, {RunID: "b", Failed: 1, FailedIDs: []string{"x/y"}}})
	assert.Contains(t, buf.String(), "x/y")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "1 passed, 2 failed of 3 in 1.50s", Summary(sampleOutput().Meta))
}

type memorySaver struct {
	saved int
	err   error
}

func (m *memorySaver) Save(*domain.ResultsOutput) error {
	m.saved++
	return m.err
}

func TestErrorViewer_ToggleResolved(t *testing.T) {
	saver := &memorySaver{}
	viewer := NewErrorViewer(saver)
	output := sampleOutput()

	require.Equal(t, 1, CountUnresolved(output.Details))
	require.NoError(t, viewer.ToggleResolved(output, 0))
	assert.True(t, output.Details[0].Resolved)
	assert.Equal(t, 0, CountUnresolved(output.Details))
	assert.Equal(t, 1, saver.saved)

	assert.Error(t, viewer.ToggleResolved(output, 5))

	saver.err = errors.New("disk full")
	assert.EqualError(t, viewer.ToggleResolved(output, 1), "disk full")
}

func TestFailureBrowser_ResolveAndSkip(t *testing.T) {
	saver := &memorySaver{}
	output := sampleOutput()
	output.Details = append(output.Details, domain.CaseFailure{ID: "text/upper", Suite: "text", Name: "upper"})
	b := newFailureBrowser(NewErrorViewer(saver), output)

	require.Equal(t, 0, b.list.GetCurrentItem())
	b.nextUnresolved()
	assert.Equal(t, 2, b.list.GetCurrentItem(), "resolved failure at 1 is skipped")

	b.toggleSelected()
	assert.True(t, output.Details[2].Resolved)
	assert.Equal(t, 1, saver.saved)

	b.nextUnresolved()
	assert.Equal(t, 0, b.list.GetCurrentItem(), "search wraps around")
	assert.Contains(t, b.header.GetText(false), "1 unresolved")
}

func TestErrorViewer_FormatFailureDetailsEscapesTags(t *testing.T) {
	viewer := NewErrorViewer(&memorySaver{})
	text := viewer.formatFailureDetails(domain.CaseFailure{
		ID:       "codec/bytes",
		Expected: "value []byte{0x1}",
		Actual:   "value [red]",
		Detail:   "line one\nline two\n",
		Attempts: 3,
	})

	assert.Contains(t, text, "Attempts: 3")
	assert.Contains(t, text, "[red[]")
	assert.Contains(t, text, "  line two")
}

func TestProgressBar_NilSafe(t *testing.T) {
	var p *ProgressBar
	p.Update(1, 1)
	p.Finish()

	(&ProgressBar{}).Update(1, 0)
}

func TestProgressBar_Draws(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBarTo(&buf, 2)
	p.Update(1, 1)
	p.Finish()
	assert.Contains(t, buf.String(), "failed: 1")
}

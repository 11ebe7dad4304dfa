package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctp/internal/catalog"
	"ctp/internal/cli"
	"ctp/internal/config"
	"ctp/internal/storage"
	"ctp/internal/suites"
	"ctp/internal/ui"
)

const sampleCases = `suite: sample
cases:
  - name: atoi-right
    op: strconv.Atoi
    args: ["7"]
    expect:
      value: 7
  - name: atoi-wrong
    op: strconv.Atoi
    args: ["42"]
    expect:
      value: 43
  - name: atoi-empty
    partition: empty
    op: strconv.Atoi
    args: [""]
    expect:
      error: {kind: SYNTAX}
`

// execute runs ctp with args in the current directory and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer

	rootCmd := &cobra.Command{Use: "ctp", SilenceUsage: true, SilenceErrors: true}
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	cfg := config.New()
	var flags cli.Flags
	NewCommands(cfg, &out).Register(rootCmd, &flags, cfg)

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func setupProject(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cases"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cases", "sample.cases.yaml"), []byte(sampleCases), 0644))
	return dir
}

func loadResults(t *testing.T) *storage.JSONStorage {
	t.Helper()
	cfg := config.New()
	return storage.NewJSONStorage(cfg)
}

func TestRun_SavesFailuresAndHistory(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "run", "--no-builtin", "-p", "2")
	require.ErrorIs(t, err, ErrCasesFailed)
	assert.Contains(t, out, "atoi-wrong")

	output, err := loadResults(t).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, output.Meta.TotalCases)
	assert.Equal(t, 2, output.Meta.PassedCases)
	assert.Equal(t, 1, output.Meta.FailedCases)
	assert.Equal(t, 2, output.Meta.Workers)
	assert.NotEmpty(t, output.Meta.RunID)
	require.Len(t, output.Details, 1)
	assert.Equal(t, "sample/atoi-wrong", output.Details[0].ID)
	assert.Contains(t, output.Details[0].Source, "sample.cases.yaml")

	history, err := storage.OpenHistory(filepath.Join(dir, "storage", "history"))
	require.NoError(t, err)
	defer history.Close()
	last, ok, err := history.Last()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, output.Meta.RunID, last.RunID)
	assert.Equal(t, []string{"sample/atoi-wrong"}, last.FailedIDs)
}

func TestRun_InterruptedRunKeepsResults(t *testing.T) {
	dir := setupProject(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executeContext(t, ctx, "run", "--no-builtin", "-p", "1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "run interrupted")

	output, err := loadResults(t).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, output.Meta.TotalCases)
	assert.NotEmpty(t, output.Meta.RunID)

	history, err := storage.OpenHistory(filepath.Join(dir, "storage", "history"))
	require.NoError(t, err)
	defer history.Close()
	last, ok, err := history.Last()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, output.Meta.RunID, last.RunID)
}

func TestRun_FailedRerunsOnlyLastFailures(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "run", "--no-builtin")
	require.ErrorIs(t, err, ErrCasesFailed)

	_, err = execute(t, "run", "--no-builtin", "--failed")
	require.ErrorIs(t, err, ErrCasesFailed)

	output, err := loadResults(t).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, output.Meta.TotalCases)
	assert.Equal(t, []string{"sample/atoi-wrong"}, output.FailedIDs())
}

func TestRun_FailedWithoutPreviousRun(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "run", "--no-builtin", "--failed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no previous run")
}

func TestRun_AllPassing(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "run", "--no-builtin", "--filter", "*atoi-right*")
	require.NoError(t, err)

	output, err := loadResults(t).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, output.Meta.PassedCases)
	assert.Empty(t, output.Details)
}

func TestRun_PartitionSelection(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "run", "--no-builtin", "--partition", "empty")
	require.NoError(t, err)

	output, err := loadResults(t).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, output.Meta.TotalCases)

	_, err = execute(t, "run", "--no-builtin", "--partition", "sideways")
	require.Error(t, err)
}

func TestRun_ShardsSplitTheSelection(t *testing.T) {
	setupProject(t)

	total := 0
	for _, shard := range []string{"1/2", "2/2"} {
		_, _ = execute(t, "run", "--no-builtin", "--shard", shard)
		output, err := loadResults(t).Load()
		require.NoError(t, err)
		total += output.Meta.TotalCases
	}
	assert.Equal(t, 3, total)

	_, err := execute(t, "run", "--no-builtin", "--shard", "3/2")
	require.Error(t, err)
}

func TestRun_WritesJUnit(t *testing.T) {
	dir := setupProject(t)
	path := filepath.Join(dir, "junit.xml")

	_, err := execute(t, "run", "--no-builtin", "--junit", path)
	require.ErrorIs(t, err, ErrCasesFailed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<testsuite name="sample"`)
	assert.Contains(t, string(data), "atoi-wrong")
}

func TestRun_MissingExplicitCasesPath(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "run", "--no-builtin", "--cases", "nowhere")
	require.Error(t, err)
}

func TestList_MarksLastFailures(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "run", "--no-builtin")
	require.ErrorIs(t, err, ErrCasesFailed)

	out, err := execute(t, "list", "--no-builtin")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 case(s)")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "atoi-wrong") {
			assert.Contains(t, line, "[F]")
		}
		if strings.Contains(line, "atoi-right") {
			assert.NotContains(t, line, "[F]")
		}
	}
}

func TestList_Operations(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "list", "--ops")
	require.NoError(t, err)
	assert.Contains(t, out, "strconv.Atoi")
	assert.Contains(t, out, "uuid.Parse")
	assert.Contains(t, out, "identity (github.com/google/uuid)")
	assert.Contains(t, out, "numeric (fortio.org/safecast, strconv)")
	assert.Less(t, strings.Index(out, "identity ("), strings.Index(out, "uuid.Parse"))
}

func TestOperationGroups(t *testing.T) {
	all := []suites.Suite{
		{Name: "alpha", Library: "example.com/alpha", Operations: []catalog.Operation{{Name: "alpha.One"}, {Name: "alpha.Two"}}},
		{Name: "beta", Library: "example.com/beta"},
		{Name: "gamma", Library: "example.com/gamma", Operations: []catalog.Operation{{Name: "gamma.Unregistered"}}},
	}

	groups := operationGroups(all, []string{"alpha.One", "alpha.Two", "stray.Op"})
	require.Len(t, groups, 2)
	assert.Equal(t, ui.OperationGroup{Suite: "alpha", Library: "example.com/alpha", Operations: []string{"alpha.One", "alpha.Two"}}, groups[0])
	assert.Equal(t, ui.OperationGroup{Suite: "other", Operations: []string{"stray.Op"}}, groups[1])
}

func TestHistory_ShowsAndPrunesRuns(t *testing.T) {
	setupProject(t)

	for i := 0; i < 3; i++ {
		_, err := execute(t, "run", "--no-builtin")
		require.ErrorIs(t, err, ErrCasesFailed)
	}

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "✗ sample/atoi-wrong"))

	out, err = execute(t, "history", "--prune", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "✗ sample/atoi-wrong"))
}

func TestFails_WithoutResults(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "fails")
	require.Error(t, err)
}

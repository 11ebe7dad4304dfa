package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctp/internal/config"
	"ctp/internal/domain"
)

func newStorage(t *testing.T) *JSONStorage {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return NewJSONStorage(cfg)
}

func TestJSONStorage_SaveLoad(t *testing.T) {
	st := newStorage(t)
	output := &domain.ResultsOutput{
		Meta: domain.ResultsMeta{RunID: "r1", TotalCases: 2, PassedCases: 1, FailedCases: 1, Workers: 4},
		Details: []domain.CaseFailure{
			{ID: "numeric/conv", Suite: "numeric", Name: "conv", Expected: "error OUT_OF_RANGE", Actual: "value 1", Attempts: 3},
		},
	}

	require.NoError(t, st.Save(output))
	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, output, loaded)

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "r1"`)
}

func TestJSONStorage_SaveWritesEmptyDetails(t *testing.T) {
	st := newStorage(t)
	require.NoError(t, st.Save(&domain.ResultsOutput{}))

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"details": []`)

	entries, err := os.ReadDir(filepath.Dir(st.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestJSONStorage_LoadErrors(t *testing.T) {
	st := newStorage(t)
	_, err := st.Load()
	assert.ErrorContains(t, err, "read results file")

	require.NoError(t, os.MkdirAll(filepath.Dir(st.Path()), 0755))
	require.NoError(t, os.WriteFile(st.Path(), []byte("{"), 0644))
	_, err = st.Load()
	assert.ErrorContains(t, err, "parse results")
}

func TestHistory_AppendEntries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	h, err := OpenHistory(dir)
	require.NoError(t, err)

	entries, err := h.Entries(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, ok, err := h.Last()
	require.NoError(t, err)
	assert.False(t, ok)

	for i := 1; i <= 5; i++ {
		require.NoError(t, h.Append(domain.HistoryEntry{
			RunID:     fmt.Sprintf("run-%d", i),
			Passed:    i,
			Failed:    i % 2,
			FailedIDs: []string{fmt.Sprintf("suite/case-%d", i)},
		}))
	}

	entries, err = h.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "run-1", entries[0].RunID)

	entries, err = h.Entries(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"run-4", "run-5"}, []string{entries[0].RunID, entries[1].RunID})

	last, ok, err := h.Last()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"suite/case-5"}, last.FailedIDs)

	require.NoError(t, h.Close())

	// entries survive reopening
	h, err = OpenHistory(dir)
	require.NoError(t, err)
	defer h.Close()
	require.NoError(t, h.Append(domain.HistoryEntry{RunID: "run-6"}))
	last, _, err = h.Last()
	require.NoError(t, err)
	assert.Equal(t, "run-6", last.RunID)
}

func TestHistory_Prune(t *testing.T) {
	h, err := OpenHistory(t.TempDir())
	require.NoError(t, err)
	defer h.Close()

	assert.Error(t, h.Prune(0))
	require.NoError(t, h.Prune(3))

	for i := 1; i <= 4; i++ {
		require.NoError(t, h.Append(domain.HistoryEntry{RunID: fmt.Sprintf("run-%d", i)}))
	}
	require.NoError(t, h.Prune(2))

	entries, err := h.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-3", entries[0].RunID)
}

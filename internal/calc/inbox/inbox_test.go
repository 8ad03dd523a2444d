package inbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	beam "Stratum/internal/calc/beam"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"name", "span_m", "i_m4", "loads"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"B1", 6, 0.0001, "P:10@3"}))
	require.NoError(t, f.SaveAs(path))
}

func TestResultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("in", "beams_results.xlsx"), ResultPath(filepath.Join("in", "beams.xlsx")))
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, isWorkbook("/in/beams.xlsx"))
	assert.True(t, isWorkbook("/in/BEAMS.XLSX"))
	assert.False(t, isWorkbook("/in/beams_results.xlsx"))
	assert.False(t, isWorkbook("/in/.stratum-123"))
	assert.False(t, isWorkbook("/in/~$beams.xlsx"))
	assert.False(t, isWorkbook("/in/notes.txt"))
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, beam.NewService(nil, 0, nil), nil)
	require.NoError(t, err)
	defer w.watcher.Close()

	src := filepath.Join(dir, "beams.xlsx")
	writeWorkbook(t, src)

	out, err := w.Process(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "beams_results.xlsx"), out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "B1", rows[1][1])
}

func TestRunPicksUpNewWorkbook(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, beam.NewService(nil, 0, nil), nil)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeWorkbook(t, filepath.Join(dir, "drop.xlsx"))

	out := filepath.Join(dir, "drop_results.xlsx")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

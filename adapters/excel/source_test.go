package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gocinema/domain/core"
	"gocinema/internal/csvparse"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ReadTable(ctx context.Context, location, name string) ([][]csvparse.Field, error) {
	args := m.Called(ctx, location, name)
	rows, _ := args.Get(0).([][]csvparse.Field)
	return rows, args.Error(1)
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(DefaultSheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReadWorkbook(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "data.xlsx"), [][]any{
		{"time", "phi", "FILE"},
		{"1", "0.5", "a.png"},
		{"2", "0.25"},
	})

	s := NewSource(nil)
	rows, err := s.ReadTable(context.Background(), dir, "data")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvparse.Present("time"), rows[0][0])
	assert.Equal(t, csvparse.Present("a.png"), rows[1][2])
	require.Len(t, rows[2], 3)
	assert.Equal(t, csvparse.Absent(), rows[2][2])
}

func TestFallback(t *testing.T) {
	dir := t.TempDir()
	fallback := &mockSource{}
	want := [][]csvparse.Field{{csvparse.Present("a")}}
	fallback.On("ReadTable", mock.Anything, dir, "axis_order").Return(want, nil)

	rows, err := NewSource(fallback).ReadTable(context.Background(), dir, "axis_order")
	require.NoError(t, err)
	assert.Equal(t, want, rows)
	fallback.AssertExpectations(t)

	_, err = NewSource(nil).ReadTable(context.Background(), dir, "data")
	assert.True(t, core.IsNotFoundError(err))
}

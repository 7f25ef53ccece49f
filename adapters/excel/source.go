// Package excel reads database tables from xlsx workbooks.
package excel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"gocinema/domain/core"
	"gocinema/internal"
	"gocinema/internal/csvparse"
	"gocinema/ports"
)

var logger = internal.DefaultLogger.Component("Excel")

// DefaultSheet is the sheet tables are read from
const DefaultSheet = "Sheet1"

// Source reads <name>.xlsx from local database directories and hands every
// other table to the fallback source
type Source struct {
	fallback ports.TableSource
	sheet    string
}

// NewSource creates a workbook source. fallback may be nil.
func NewSource(fallback ports.TableSource) *Source {
	return &Source{fallback: fallback, sheet: DefaultSheet}
}

// FileName is the workbook a table is read from
func FileName(name string) string { return name + ".xlsx" }

func (s *Source) ReadTable(ctx context.Context, location, name string) ([][]csvparse.Field, error) {
	path := filepath.Join(location, FileName(name))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ReadWorkbook(path, s.sheet)
	}
	if s.fallback == nil {
		return nil, core.NewIngestionError(path, fmt.Errorf("%w: file %s", core.ErrNotFound, FileName(name)))
	}
	return s.fallback.ReadTable(ctx, location, name)
}

// ReadWorkbook reads a sheet as a table. Rows shorter than the header are
// padded with absent cells, since trailing empty cells are not stored.
func ReadWorkbook(path, sheet string) ([][]csvparse.Field, error) {
	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.NewIngestionError(path, fmt.Errorf("%w: %v", core.ErrNotFound, err))
		}
		return nil, core.NewIngestionError(path, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewIngestionError(path, fmt.Errorf("failed to read %s: %w", sheet, err))
	}
	logger.Debug("%s read in %.2fms (%d rows)", path,
		float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return csvparse.Strings(pad(rows)), nil
}

func pad(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}

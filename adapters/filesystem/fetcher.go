// Package filesystem reads database files from local directories.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gocinema/domain/core"
)

// Fetcher reads files relative to a database directory
type Fetcher struct{}

// NewFetcher creates a local file fetcher
func NewFetcher() *Fetcher { return &Fetcher{} }

// Fetch returns the contents of file inside location. A missing file is a
// not-found ingestion error.
func (f *Fetcher) Fetch(ctx context.Context, location, file string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(location, file)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", core.NewIngestionError(path, fmt.Errorf("%w: file %s", core.ErrNotFound, file))
		}
		return "", core.NewIngestionError(path, err)
	}
	return string(data), nil
}

// Exists reports whether file is present in location
func (f *Fetcher) Exists(location, file string) bool {
	info, err := os.Stat(filepath.Join(location, file))
	return err == nil && !info.IsDir()
}

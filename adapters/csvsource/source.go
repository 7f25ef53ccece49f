// Package csvsource reads database tables stored as CSV text.
package csvsource

import (
	"context"

	"gocinema/internal/csvparse"
	"gocinema/ports"
)

// Source parses <name>.csv fetched from the database location
type Source struct {
	fetcher ports.TextFetcher
}

func New(fetcher ports.TextFetcher) *Source {
	return &Source{fetcher: fetcher}
}

// FileName is the file a table is read from
func FileName(name string) string { return name + ".csv" }

func (s *Source) ReadTable(ctx context.Context, location, name string) ([][]csvparse.Field, error) {
	text, err := s.fetcher.Fetch(ctx, location, FileName(name))
	if err != nil {
		return nil, err
	}
	return csvparse.Parse(text), nil
}

// Package catalog reads the list of Cinema databases the explorer offers and
// writes it back with the viewer settings of the live database.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"gocinema/domain/core"
)

const (
	DefaultFilter      = "^FILE"
	DefaultLogscale    = "^$"
	DefaultLineOpacity = 1.0
)

// Entry describes one database. Optional settings are pointers so an export
// only writes what the catalog or the user set.
type Entry struct {
	Name        string   `json:"name,omitempty" yaml:"name"`
	Directory   string   `json:"directory" yaml:"directory"`
	Filter      *string  `json:"filter,omitempty" yaml:"filter"`
	Logscale    *string  `json:"logscale,omitempty" yaml:"logscale"`
	SmoothLines *bool    `json:"smoothLines,omitempty" yaml:"smoothLines"`
	LineOpacity *float64 `json:"lineOpacity,omitempty" yaml:"lineOpacity"`
	Picked      []int    `json:"picked,omitempty" yaml:"picked"`
}

// Label is the name shown for the entry, its directory when unnamed
func (e Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Directory
}

// FilterPattern matches the dimensions hidden from charts
func (e Entry) FilterPattern() string {
	if e.Filter == nil {
		return DefaultFilter
	}
	return *e.Filter
}

// LogscalePattern matches the dimensions drawn on logarithmic axes
func (e Entry) LogscalePattern() string {
	if e.Logscale == nil {
		return DefaultLogscale
	}
	return *e.Logscale
}

func (e Entry) FilterRegexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile(e.FilterPattern())
	if err != nil {
		return nil, core.NewInvalidInputError("filter", err.Error())
	}
	return re, nil
}

func (e Entry) LogscaleRegexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile(e.LogscalePattern())
	if err != nil {
		return nil, core.NewInvalidInputError("logscale", err.Error())
	}
	return re, nil
}

// Smooth reports whether paths are drawn as curves
func (e Entry) Smooth() bool { return e.SmoothLines == nil || *e.SmoothLines }

// Opacity is the stroke opacity of selected paths
func (e Entry) Opacity() float64 {
	if e.LineOpacity == nil {
		return DefaultLineOpacity
	}
	return *e.LineOpacity
}

// PickedRows returns the rows picked when the entry was saved
func (e Entry) PickedRows() []int { return append([]int{}, e.Picked...) }

// Location resolves the entry directory against root. URLs and absolute
// paths are returned unchanged.
func (e Entry) Location(root string) string {
	dir := e.Directory
	if strings.HasPrefix(dir, "http://") || strings.HasPrefix(dir, "https://") || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// Settings are the viewer settings a user can change on the live database
type Settings struct {
	Filter      string  `json:"filter"`
	Logscale    string  `json:"logscale"`
	SmoothLines bool    `json:"smoothLines"`
	LineOpacity float64 `json:"lineOpacity"`
	Picked      []int   `json:"picked"`
}

// Settings returns the effective settings of the entry
func (e Entry) Settings() Settings {
	return Settings{
		Filter:      e.FilterPattern(),
		Logscale:    e.LogscalePattern(),
		SmoothLines: e.Smooth(),
		LineOpacity: e.Opacity(),
		Picked:      e.PickedRows(),
	}
}

// WithSettings returns a copy of e carrying s
func (e Entry) WithSettings(s Settings) Entry {
	filter, logscale := s.Filter, s.Logscale
	smooth, opacity := s.SmoothLines, s.LineOpacity
	e.Filter, e.Logscale = &filter, &logscale
	e.SmoothLines, e.LineOpacity = &smooth, &opacity
	e.Picked = append([]int{}, s.Picked...)
	return e
}

// Catalog is the ordered list of databases
type Catalog struct {
	Entries []Entry
}

// Load reads a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog. The file is JSON, which the YAML decoder reads as
// flow style. Every pattern must compile.
func Parse(data []byte) (*Catalog, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, core.NewInvalidInputError("catalog", "no databases listed")
	}
	for i, e := range entries {
		if e.Directory == "" {
			return nil, core.NewInvalidInputError("catalog", fmt.Sprintf("entry %d has no directory", i))
		}
		if _, err := e.FilterRegexp(); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Label(), err)
		}
		if _, err := e.LogscaleRegexp(); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Label(), err)
		}
	}
	return &Catalog{Entries: entries}, nil
}

// Lookup finds an entry by label
func (c *Catalog) Lookup(label string) (Entry, error) {
	for _, e := range c.Entries {
		if e.Label() == label {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", core.ErrDatabaseNotFound, label)
}

// Labels lists the entry labels in catalog order
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Label()
	}
	return out
}

// Update replaces the entry with the same label
func (c *Catalog) Update(entry Entry) error {
	for i, e := range c.Entries {
		if e.Label() == entry.Label() {
			c.Entries[i] = entry
			return nil
		}
	}
	return fmt.Errorf("%w: %s", core.ErrDatabaseNotFound, entry.Label())
}

// Export renders the catalog as a settings file, indented by four spaces,
// with live replacing the entry of the same label
func (c *Catalog) Export(live *Entry) ([]byte, error) {
	entries := append([]Entry(nil), c.Entries...)
	if live != nil {
		for i, e := range entries {
			if e.Label() == live.Label() {
				entries[i] = *live
			}
		}
	}
	return json.MarshalIndent(entries, "", "    ")
}

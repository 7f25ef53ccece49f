package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gocinema/adapters/csvsource"
	"gocinema/adapters/excel"
	"gocinema/adapters/filesystem"
	"gocinema/adapters/httpfetch"
	"gocinema/internal/config"
	"gocinema/internal/csvparse"
	"gocinema/internal/dataset"
	"gocinema/internal/hittest"
	"gocinema/internal/profiling"
	"gocinema/internal/query"
	"gocinema/internal/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cinema-cli",
		Short: "Cinema CLI for inspecting databases and querying their rows",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fetchTimeout = cfg.Catalog.FetchTimeout
			return nil
		},
	}

	rootCmd.AddCommand(
		newInspectCmd(),
		newSimilarCmd(),
		newOrderingsCmd(),
		newCodecCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var fetchTimeout = 30 * time.Second

// loadDataset reads the tables of a database directory or URL
func loadDataset(ctx context.Context, location string) (*dataset.Dataset, error) {
	source := excel.NewSource(csvsource.New(httpfetch.New(fetchTimeout, filesystem.NewFetcher())))

	primary, err := source.ReadTable(ctx, location, session.PrimaryTable)
	if err != nil {
		return nil, fmt.Errorf("Error loading data.csv! %w", err)
	}
	var axis [][]csvparse.Field
	hasAxis := false
	if t, err := source.ReadTable(ctx, location, session.AxisOrderTable); err == nil {
		axis, hasAxis = t, true
	}
	return dataset.Build(primary, axis, hasAxis)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [database]",
		Short: "Describe the dimensions of a database",
		Long: `Load a database directory (or URL) and print its dimensions, inferred
types, domains, axis orderings and a statistical summary per dimension.

Example: cinema-cli inspect ./data/sphere --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			summaries := profiling.Profile(ds, nil)
			if asJSON {
				return printJSON(map[string]interface{}{
					"rows":       ds.RowCount(),
					"dimensions": ds.Dimensions(),
					"warnings":   ds.Warnings(),
					"summaries":  summaries,
				})
			}
			for _, w := range ds.Warnings() {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			fmt.Print(profiling.Report(filepath.Base(args[0]), ds, summaries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of markdown")
	return cmd
}

func newSimilarCmd() *cobra.Command {
	var row int
	var threshold float64
	var values []string

	cmd := &cobra.Command{
		Use:   "similar [database]",
		Short: "Find rows close to a query point",
		Long: `Find rows whose normalized Manhattan distance from a query is at most
the threshold. The query starts from --row when given and --query sets
individual dimensions.

Example: cinema-cli similar ./data/sphere --row 3 --query phi=90 --threshold 0.2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			q, err := buildQuery(ds, row, values)
			if err != nil {
				return err
			}
			rows := ds.GetSimilar(q, threshold)
			for _, r := range rows {
				fmt.Printf("%d\t%.4f\n", r, ds.Distance(q, r))
			}
			fmt.Fprintf(os.Stderr, "%d results found!\n", len(rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&row, "row", -1, "Start the query from this row")
	cmd.Flags().Float64Var(&threshold, "threshold", query.DefaultThreshold, "Maximum distance")
	cmd.Flags().StringArrayVar(&values, "query", nil, "Dimension value as name=value, repeatable")
	return cmd
}

func buildQuery(ds *dataset.Dataset, row int, values []string) (dataset.Query, error) {
	q := dataset.Query{}
	if row >= 0 {
		if row >= ds.RowCount() {
			return nil, fmt.Errorf("row %d out of range, the database has %d rows", row, ds.RowCount())
		}
		q = ds.RowQuery(row)
	}
	text := make(map[string]string, len(values))
	for _, kv := range values {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("query %q must be name=value", kv)
		}
		text[name] = value
	}
	parsed, unknown := ds.ParseQuery(text)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown dimensions: %s", strings.Join(unknown, ", "))
	}
	for name, v := range parsed {
		q[name] = v
	}
	if len(q) == 0 {
		return nil, fmt.Errorf("empty query: pass --row or --query")
	}
	return q, nil
}

func newOrderingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orderings [database]",
		Short: "List the axis orderings of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ds.HasAxisOrdering() {
				fmt.Println("no axis_order table")
				return nil
			}
			for _, o := range ds.AxisOrders().All() {
				fmt.Printf("%s / %s: %s\n", o.Category, o.Name, strings.Join(o.Order, ", "))
			}
			return nil
		},
	}
}

func newCodecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codec",
		Short: "Convert between row indices and pick raster colors",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode [index...]",
		Short: "Print the pick color of each row index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				i, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid index %q: %w", arg, err)
				}
				c := hittest.Encode(i)
				fmt.Printf("%d\t%d,%d,%d\n", i, c.R, c.G, c.B)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode [r,g,b...]",
		Short: "Print the row index of each pick color",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				c, err := parseRGB(arg)
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%d\n", arg, hittest.Decode(c))
			}
			return nil
		},
	})

	return cmd
}

func parseRGB(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q must be r,g,b", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}

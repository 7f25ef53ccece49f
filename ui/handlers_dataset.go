package ui

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gocinema/domain/core"
	"gocinema/domain/ensemble"
	"gocinema/internal/dataset"
	"gocinema/internal/errors"
	"gocinema/internal/profiling"
	"gocinema/internal/query"
)

type databaseView struct {
	Label       string  `json:"label"`
	Directory   string  `json:"directory"`
	Filter      string  `json:"filter"`
	Logscale    string  `json:"logscale"`
	SmoothLines bool    `json:"smoothLines"`
	LineOpacity float64 `json:"lineOpacity"`
	Picked      []int   `json:"picked"`
}

func (s *Server) handleDatabases(c *gin.Context) {
	out := []databaseView{}
	if s.catalog != nil {
		for _, e := range s.catalog.Entries {
			out = append(out, databaseView{
				Label:       e.Label(),
				Directory:   e.Directory,
				Filter:      e.FilterPattern(),
				Logscale:    e.LogscalePattern(),
				SmoothLines: e.Smooth(),
				LineOpacity: e.Opacity(),
				Picked:      e.PickedRows(),
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"databases": out})
}

func (s *Server) handleLoad(c *gin.Context) {
	if s.catalog == nil {
		s.respondError(c, errors.NotFound("database catalog"))
		return
	}
	entry, err := s.catalog.Lookup(c.Param("name"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.session.Load(c.Request.Context(), entry); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) handleSettings(c *gin.Context) {
	data, err := s.session.Settings()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="databases.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

type dimensionView struct {
	ensemble.Dimension
	Visible bool `json:"visible"`
}

func (s *Server) handleDataset(c *gin.Context) {
	ds, err := s.session.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}
	visible, err := s.session.VisibleDimensions()
	if err != nil {
		s.respondError(c, err)
		return
	}
	shown := make(map[string]bool, len(visible))
	for _, d := range visible {
		shown[d.Name] = true
	}
	dims := make([]dimensionView, 0, len(ds.Dimensions()))
	for _, d := range ds.Dimensions() {
		dims = append(dims, dimensionView{Dimension: d, Visible: shown[d.Name]})
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":            ds.RowCount(),
		"dimensions":      dims,
		"hasAxisOrdering": ds.HasAxisOrdering(),
		"warnings":        append([]string{}, ds.Warnings()...),
		"summaries":       profiling.Profile(ds, nil),
	})
}

// handleReport renders the markdown report as HTML, or as markdown with
// ?format=md
func (s *Server) handleReport(c *gin.Context) {
	report, err := s.session.Report()
	if err != nil {
		s.respondError(c, err)
		return
	}
	if c.Query("format") == "md" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", renderMarkdown(report))
}

func renderMarkdown(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, r)
}

func (s *Server) handleRow(c *gin.Context) {
	i, ok := s.indexParam(c)
	if !ok {
		return
	}
	info, err := s.session.Describe(i)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) indexParam(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.respondError(c, errors.InvalidInput("row index must be an integer"))
		return 0, false
	}
	return i, true
}

type similarRequest struct {
	Query     map[string]ensemble.Value `json:"query"`
	Row       *int                      `json:"row"`
	Threshold *float64                  `json:"threshold"`
}

// handleSimilar answers a query given as values or, with "row", as the values
// of an existing row
func (s *Server) handleSimilar(c *gin.Context) {
	var req similarRequest
	if !s.bind(c, &req) {
		return
	}
	ds, err := s.session.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}

	q := dataset.Query{}
	if req.Row != nil {
		if *req.Row < 0 || *req.Row >= ds.RowCount() {
			s.respondError(c, core.NewNotFoundError("row", strconv.Itoa(*req.Row)))
			return
		}
		q = ds.RowQuery(*req.Row)
	}
	text := make(map[string]string, len(req.Query))
	for name, v := range req.Query {
		text[name] = v.String()
	}
	parsed, unknown := ds.ParseQuery(text)
	if len(unknown) > 0 {
		sort.Strings(unknown)
		s.respondError(c, core.NewNotFoundError("dimension", strings.Join(unknown, ", ")))
		return
	}
	for name, v := range parsed {
		q[name] = v
	}

	threshold := query.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	rows, err := s.session.Similar(q, threshold)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
}

package ui

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"gocinema/internal/brush"
	"gocinema/internal/csvparse"
	"gocinema/internal/errors"
	"gocinema/internal/query"
	"gocinema/internal/session"
)

// handleBrush sets the brush of a dimension; a null body clears it
func (s *Server) handleBrush(c *gin.Context) {
	var ext *brush.Extent
	body, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && string(trimmed) != "null" {
		ext = &brush.Extent{}
		if err := binding.JSON.BindBody(trimmed, ext); err != nil {
			s.respondError(c, errors.InvalidInput("invalid brush extent: "+err.Error()))
			return
		}
	}
	rows, err := s.session.SetBrush(c.Param("dimension"), ext)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondSelection(c, rows)
}

// handleGetSelection returns the selection as JSON, or the selected rows as a
// CSV table with ?format=csv
func (s *Server) handleGetSelection(c *gin.Context) {
	rows, text, err := s.session.Selection()
	if err != nil {
		s.respondError(c, err)
		return
	}
	if c.Query("format") != "csv" {
		c.JSON(http.StatusOK, gin.H{"rows": rows, "text": text})
		return
	}
	ds, err := s.session.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}
	table := make([][]csvparse.Field, 0, len(rows)+1)
	header := make([]csvparse.Field, 0, len(ds.Dimensions()))
	for _, name := range ds.DimensionNames() {
		header = append(header, csvparse.Present(name))
	}
	table = append(table, header)
	for _, r := range rows {
		row, _ := ds.Row(r)
		fields := make([]csvparse.Field, len(row))
		for i, v := range row {
			if v.IsAbsent() {
				fields[i] = csvparse.Absent()
				continue
			}
			fields[i] = csvparse.Present(v.String())
		}
		table = append(table, fields)
	}
	c.Header("Content-Disposition", `attachment; filename="selection.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvparse.Format(table)+"\n"))
}

func (s *Server) handleSetSelection(c *gin.Context) {
	var req struct {
		Rows []int `json:"rows"`
	}
	if !s.bind(c, &req) {
		return
	}
	rows, err := s.session.SetSelection(req.Rows)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondSelection(c, rows)
}

func (s *Server) respondSelection(c *gin.Context, rows []int) {
	_, text, err := s.session.Selection()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "text": text})
}

func (s *Server) handleDrag(c *gin.Context) {
	var req struct {
		Phase session.DragPhase `json:"phase" binding:"required"`
		X     float64           `json:"x"`
	}
	if !s.bind(c, &req) {
		return
	}
	order, err := s.session.Drag(c.Param("dimension"), req.Phase, req.X)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (s *Server) handleAxisOrder(c *gin.Context) {
	var req struct {
		Order []string `json:"order"`
	}
	if !s.bind(c, &req) {
		return
	}
	order, err := s.session.SetAxisOrder(req.Order)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (s *Server) handleOrderings(c *gin.Context) {
	o, err := s.session.Orderings()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) handleApplyOrdering(c *gin.Context) {
	var req struct {
		Category string `json:"category" binding:"required"`
		Value    string `json:"value" binding:"required"`
	}
	if !s.bind(c, &req) {
		return
	}
	order, err := s.session.ApplyOrdering(req.Category, req.Value)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (s *Server) handlePaths(c *gin.Context) {
	paths, err := s.session.Paths()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paths)
}

// handleView resizes the charts and toggles smooth lines
func (s *Server) handleView(c *gin.Context) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Smooth *bool   `json:"smooth"`
	}
	if !s.bind(c, &req) {
		return
	}
	if req.Width != 0 || req.Height != 0 {
		if err := s.session.Resize(req.Width, req.Height); err != nil {
			s.respondError(c, err)
			return
		}
	}
	if req.Smooth != nil {
		if err := s.session.SetSmooth(*req.Smooth); err != nil {
			s.respondError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePick(c *gin.Context) {
	x, errX := strconv.Atoi(c.Query("x"))
	y, errY := strconv.Atoi(c.Query("y"))
	if errX != nil || errY != nil {
		s.respondError(c, errors.InvalidInput("x and y must be integers"))
		return
	}
	row, ok, err := s.session.Pick(session.View(c.Query("view")), x, y)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"hit": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hit": true, "row": row})
}

func (s *Server) handleTogglePicked(c *gin.Context) {
	i, ok := s.indexParam(c)
	if !ok {
		return
	}
	picked, err := s.session.TogglePicked(i)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"picked": picked})
}

func (s *Server) handleHighlight(c *gin.Context) {
	var req struct {
		Rows []int `json:"rows"`
	}
	if !s.bind(c, &req) {
		return
	}
	if err := s.session.Highlight(req.Rows); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleScatter(c *gin.Context) {
	view, err := s.session.Scatter()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleScatterAxes(c *gin.Context) {
	var req struct {
		X string `json:"x"`
		Y string `json:"y"`
	}
	if !s.bind(c, &req) {
		return
	}
	if err := s.session.SetScatterAxes(req.X, req.Y); err != nil {
		s.respondError(c, err)
		return
	}
	s.handleScatter(c)
}

func (s *Server) handleQuery(c *gin.Context) {
	var req struct {
		Custom    map[string]float64 `json:"custom"`
		Threshold *float64           `json:"threshold"`
	}
	if !s.bind(c, &req) {
		return
	}
	threshold := query.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	res, err := s.session.Query(req.Custom, threshold)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleClearQuery(c *gin.Context) {
	if err := s.session.ClearQuery(); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gocinema/internal"
	"gocinema/internal/catalog"
	"gocinema/internal/errors"
	"gocinema/internal/session"
)

// Server is the HTTP API of the explorer
type Server struct {
	router  *gin.Engine
	session *session.Session
	catalog *catalog.Catalog
	metrics prometheus.Gatherer
	log     *internal.Logger
}

// NewServer creates a server over sess. The catalog lists the databases that
// can be loaded; gatherer, when not nil, is exposed at /metrics.
func NewServer(sess *session.Session, cat *catalog.Catalog, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		router:  gin.Default(),
		session: sess,
		catalog: cat,
		metrics: gatherer,
		log:     internal.DefaultLogger.Component("UI"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{})))
	}

	api := s.router.Group("/api")
	{
		api.GET("/databases", s.handleDatabases)
		api.POST("/databases/:name/load", s.handleLoad)
		api.GET("/session", s.handleSession)
		api.GET("/settings", s.handleSettings)

		api.GET("/dataset", s.handleDataset)
		api.GET("/dataset/report", s.handleReport)
		api.GET("/rows/:index", s.handleRow)
		api.POST("/similar", s.handleSimilar)

		api.PUT("/brush/:dimension", s.handleBrush)
		api.GET("/selection", s.handleGetSelection)
		api.POST("/selection", s.handleSetSelection)

		api.POST("/axes/:dimension/drag", s.handleDrag)
		api.PUT("/axes/order", s.handleAxisOrder)
		api.GET("/axes/orderings", s.handleOrderings)
		api.POST("/axes/orderings/apply", s.handleApplyOrdering)

		api.GET("/paths", s.handlePaths)
		api.PUT("/view", s.handleView)
		api.GET("/pick", s.handlePick)
		api.POST("/picked/:index", s.handleTogglePicked)
		api.PUT("/highlight", s.handleHighlight)

		api.GET("/scatter", s.handleScatter)
		api.PUT("/scatter/axes", s.handleScatterAxes)

		api.PUT("/query", s.handleQuery)
		api.DELETE("/query", s.handleClearQuery)
	}
}

// Handler returns the router, for tests and custom listeners
func (s *Server) Handler() http.Handler { return s.router }

// Start serves on addr until the listener fails
func (s *Server) Start(addr string) error {
	s.log.Info("Starting cinema explorer on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "state": s.session.Status().State})
}

// respondError writes err with the status of its code
func (s *Server) respondError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": appErr.Error(), "code": appErr.Code})
}

// bind decodes the JSON body into v, answering 400 on failure
func (s *Server) bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		s.respondError(c, errors.InvalidInput("invalid request body: "+err.Error()))
		return false
	}
	return true
}

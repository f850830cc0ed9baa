package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ewenmichel/wdiw/backend/internal/agent"
	"github.com/ewenmichel/wdiw/backend/internal/graph"
	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
	"github.com/ewenmichel/wdiw/backend/pkg/logger"
)

// apiHandlers bundles the dependencies the HTTP routes need. researcher is
// nil when no OpenAI key is configured; the research route answers 503 then.
type apiHandlers struct {
	repo       *graph.Repository
	researcher *agent.Researcher
	logger     *zap.Logger
}

// newRouter assembles the full HTTP surface. main wires it with live
// dependencies; tests can pass nils and exercise the routing and error paths.
func newRouter(repo *graph.Repository, researcher *agent.Researcher) *gin.Engine {
	log := logger.Get()

	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &apiHandlers{repo: repo, researcher: researcher, logger: log}
	h.registerRoutes(router.Group("/api"))
	return router
}

func (h *apiHandlers) registerRoutes(api *gin.RouterGroup) {
	api.GET("/companies", h.listCompanies)
	api.POST("/companies", h.createCompany)
	api.POST("/companies/filter", h.filterCompanies)
	api.GET("/companies/graph", h.exportGraph)
	api.GET("/companies/:id", h.getCompany)
	api.PUT("/companies/:id", h.updateCompany)
	api.DELETE("/companies/:id", h.deleteCompany)

	api.GET("/tags", h.listTags)
	api.GET("/tags/search", h.searchTags)
	api.POST("/tags", h.createTag)

	api.GET("/persons", h.listPersons)

	api.POST("/agent/research", h.researchCompany)
}

// ----------------------------------------------------------------------------
// Companies
// ----------------------------------------------------------------------------

func (h *apiHandlers) listCompanies(c *gin.Context) {
	companies, err := h.repo.ListCompanies(
		c.Request.Context(),
		c.Query("search"),
		intQuery(c, "skip", 0),
		intQuery(c, "limit", 100),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *apiHandlers) createCompany(c *gin.Context) {
	var payload graph.CompanyCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.repo.CreateCompany(c.Request.Context(), payload)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *apiHandlers) filterCompanies(c *gin.Context) {
	var params graph.FilterParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	companies, err := h.repo.FilterCompanies(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *apiHandlers) exportGraph(c *gin.Context) {
	payload, err := h.repo.ExportGraph(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *apiHandlers) getCompany(c *gin.Context) {
	companyID, ok := idParam(c)
	if !ok {
		return
	}

	detail, err := h.repo.GetCompanyDetail(c.Request.Context(), companyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *apiHandlers) updateCompany(c *gin.Context) {
	companyID, ok := idParam(c)
	if !ok {
		return
	}

	var payload graph.CompanyUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.repo.UpdateCompany(c.Request.Context(), companyID, payload)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *apiHandlers) deleteCompany(c *gin.Context) {
	companyID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.repo.DeleteCompany(c.Request.Context(), companyID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ----------------------------------------------------------------------------
// Tags and persons
// ----------------------------------------------------------------------------

func (h *apiHandlers) listTags(c *gin.Context) {
	tags, err := h.repo.ListTags(
		c.Request.Context(),
		c.Query("category"),
		intQuery(c, "skip", 0),
		intQuery(c, "limit", 100),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *apiHandlers) searchTags(c *gin.Context) {
	tags, err := h.repo.SearchTags(
		c.Request.Context(),
		c.Query("q"),
		c.Query("category"),
		intQuery(c, "limit", 20),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *apiHandlers) createTag(c *gin.Context) {
	var payload graph.TagCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.repo.CreateTag(c.Request.Context(), payload)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *apiHandlers) listPersons(c *gin.Context) {
	ctx := c.Request.Context()
	limit := intQuery(c, "limit", 100)

	var (
		persons []graph.Person
		err     error
	)
	if query := c.Query("q"); query != "" {
		persons, err = h.repo.SearchPersons(ctx, query, limit)
	} else {
		persons, err = h.repo.ListPersons(ctx, limit)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, persons)
}

// ----------------------------------------------------------------------------
// Research agent
// ----------------------------------------------------------------------------

func (h *apiHandlers) researchCompany(c *gin.Context) {
	if h.researcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Research agent is not configured"})
		return
	}

	var req struct {
		Company string `json:"company" binding:"required"`
		Persist bool   `json:"persist"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.researcher.Research(c.Request.Context(), req.Company)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if !req.Persist {
		c.JSON(http.StatusOK, gin.H{"draft": draft})
		return
	}

	detail, err := h.repo.CreateCompany(c.Request.Context(), draft.ToCompanyCreate())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": draft, "company": detail})
}

// ----------------------------------------------------------------------------
// Shared plumbing
// ----------------------------------------------------------------------------

// errorStatus maps the error taxonomy to HTTP status codes
func errorStatus(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsConstraint(err):
		return http.StatusConflict
	case apperrors.IsErrorType(err, apperrors.ErrorTypeAgent):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error with its mapped status. Internal errors keep
// their details out of the response body.
func (h *apiHandlers) respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// idParam parses the :id path parameter, answering 400 itself on bad input
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company id"})
		return 0, false
	}
	return id, true
}

// intQuery reads an optional integer query parameter
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

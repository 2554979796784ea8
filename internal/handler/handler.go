package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"testcase_generator/internal/config"
	"testcase_generator/internal/metrics"
	"testcase_generator/internal/model"
	"testcase_generator/internal/service/generator"
	"testcase_generator/internal/service/jira"
	"testcase_generator/internal/storage"
)

// Generator produces test cases from a user story
type Generator interface {
	Generate(ctx context.Context, userStory, acceptanceCriteria string) ([]model.TestCase, error)
}

// Exporter files test cases in Jira
type Exporter interface {
	Available() bool
	CreateTicket(ctx context.Context, req model.TicketRequest) (*model.Ticket, error)
	Export(ctx context.Context, req model.ExportRequest) (model.ExportReport, error)
}

// Deps are the collaborators of the API handlers
type Deps struct {
	Settings  config.Settings
	Generator Generator
	Exporter  Exporter
	Store     storage.SuiteStore
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

// APIHandler serves the HTTP API
type APIHandler struct {
	Deps
	now   func() time.Time
	newID func() string
}

func NewAPIHandler(deps Deps) *APIHandler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewMetrics()
	}
	return &APIHandler{
		Deps:  deps,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func errorBody(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// Root handles GET /
func (h *APIHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.Settings.ProjectName + " API is running"})
}

// Health handles GET /healthz
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"version":        h.Settings.Version,
		"jira_connected": h.Exporter.Available(),
	})
}

// Generate handles POST /api/v1/generate
func (h *APIHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	}

	cases, err := h.Generator.Generate(c.Request.Context(), req.UserStory, req.AcceptanceCriteria)
	switch {
	case errors.Is(err, generator.ErrEmptyUserStory):
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	case err != nil:
		h.Log.Error("failed to generate test cases", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorBody(err))
		return
	}
	h.Metrics.TestCasesGenerated.Add(float64(len(cases)))

	suite := model.Suite{
		ID:                 h.newID(),
		UserStory:          req.UserStory,
		AcceptanceCriteria: req.AcceptanceCriteria,
		TestCases:          cases,
		CreatedAt:          h.now().UTC(),
	}
	if err := h.Store.Save(c.Request.Context(), suite); err != nil {
		h.Log.Error("failed to save suite", zap.String("suite_id", suite.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save test case suite"})
		return
	}

	c.JSON(http.StatusOK, model.GenerateResponse{SuiteID: suite.ID, TestCases: cases})
}

// GetSuite handles GET /api/v1/suites/:id
func (h *APIHandler) GetSuite(c *gin.Context) {
	suite, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrSuiteNotFound):
		c.JSON(http.StatusNotFound, errorBody(err))
	case err != nil:
		h.Log.Error("failed to load suite", zap.String("suite_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load test case suite"})
	default:
		c.JSON(http.StatusOK, suite)
	}
}

// ExportToJira handles POST /api/v1/export-to-jira
func (h *APIHandler) ExportToJira(c *gin.Context) {
	var req model.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	}

	report, err := h.Exporter.Export(c.Request.Context(), req)
	switch {
	case errors.Is(err, jira.ErrConnectionUnavailable):
		c.JSON(http.StatusServiceUnavailable, report)
	case len(report.Created) == 0:
		c.JSON(http.StatusBadGateway, report)
	default:
		c.JSON(http.StatusOK, report)
	}
}

// CreateTestCase handles POST /api/v1/test-cases
func (h *APIHandler) CreateTestCase(c *gin.Context) {
	var req model.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	}

	ticket, err := h.Exporter.CreateTicket(c.Request.Context(), req)
	c.JSON(ticketStatus(err), model.NewTicketResult(ticket, err))
}

func ticketStatus(err error) int {
	if err == nil {
		return http.StatusCreated
	}
	if errors.Is(err, jira.ErrConnectionUnavailable) {
		return http.StatusServiceUnavailable
	}
	if jira.KindOf(err) == jira.KindValidation {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

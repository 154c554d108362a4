package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nexus-panel/internal/ai"
	"nexus-panel/internal/monitoring"
)

// InsightsAPI provides the AI insights endpoints: the raw health
// report, the generated analysis and the assistant.
type InsightsAPI struct {
	monitor *monitoring.Monitor
	gateway *ai.Gateway
	log     *zap.SugaredLogger
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}

// NewInsightsAPI creates a new insights API instance.
func NewInsightsAPI(monitor *monitoring.Monitor, gateway *ai.Gateway, log *zap.SugaredLogger) *InsightsAPI {
	return &InsightsAPI{
		monitor: monitor,
		gateway: gateway,
		log:     log,
	}
}

// RegisterRoutes registers the insights routes.
func (api *InsightsAPI) RegisterRoutes(group *gin.RouterGroup) {
	insights := group.Group("/insights")
	{
		insights.GET("/report", api.GetReport)
		insights.POST("/analyze", api.Analyze)
		insights.POST("/ask", api.Ask)
	}
}

// GetReport returns the current health snapshot.
func (api *InsightsAPI) GetReport(c *gin.Context) {
	report, err := api.monitor.Report()
	if err != nil {
		api.log.Errorw("health report failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compose health report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Analyze returns the AI summary of the current health snapshot. The
// body is always presentable text; service failures degrade to fixed
// notices rather than errors.
func (api *InsightsAPI) Analyze(c *gin.Context) {
	c.JSON(http.StatusOK, AnalysisResponse{
		Analysis: api.gateway.SummarizeHealth(c.Request.Context()),
	})
}

// Ask answers a free-text question about the infrastructure.
func (api *InsightsAPI) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, AnswerResponse{
		Answer: api.gateway.Ask(c.Request.Context(), req.Question),
	})
}

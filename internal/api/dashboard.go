package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nexus-panel/internal/monitoring"
)

// DashboardAPI provides the dashboard overview endpoint.
type DashboardAPI struct {
	monitor *monitoring.Monitor
	log     *zap.SugaredLogger
}

// NewDashboardAPI creates a new dashboard API instance.
func NewDashboardAPI(monitor *monitoring.Monitor, log *zap.SugaredLogger) *DashboardAPI {
	return &DashboardAPI{
		monitor: monitor,
		log:     log,
	}
}

// RegisterRoutes registers the dashboard routes.
func (api *DashboardAPI) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/dashboard", api.GetDashboard)
}

// GetDashboard returns the overview stats and the metric series for the
// chart.
func (api *DashboardAPI) GetDashboard(c *gin.Context) {
	stats, err := api.monitor.Stats()
	if err != nil {
		api.log.Errorw("dashboard stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nexus-panel/internal/database"
)

// MonetizationAPI provides the ad configuration endpoints and the
// static subscription plan catalogue.
type MonetizationAPI struct {
	db  *database.Database
	log *zap.SugaredLogger
}

type UpdateAdConfigRequest struct {
	Enabled              *bool   `json:"enabled"`
	AppID                *string `json:"app_id"`
	BannerUnitID         *string `json:"banner_unit_id"`
	InterstitialUnitID   *string `json:"interstitial_unit_id"`
	RewardedUnitID       *string `json:"rewarded_unit_id"`
	InterstitialInterval *int    `json:"interstitial_interval"`
}

// PlanOffer is one entry of the subscription catalogue.
type PlanOffer struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Interval string   `json:"interval"`
	Features []string `json:"features"`
}

type GetPlansResponse struct {
	Plans []PlanOffer `json:"plans"`
}

// NewMonetizationAPI creates a new monetization API instance.
func NewMonetizationAPI(db *database.Database, log *zap.SugaredLogger) *MonetizationAPI {
	return &MonetizationAPI{
		db:  db,
		log: log,
	}
}

// RegisterRoutes registers the monetization routes.
func (api *MonetizationAPI) RegisterRoutes(group *gin.RouterGroup) {
	monetization := group.Group("/monetization")
	{
		monetization.GET("/ads", api.GetAdConfig)
		monetization.PUT("/ads", api.UpdateAdConfig)
		monetization.GET("/plans", api.GetPlans)
	}
}

// GetAdConfig returns the singleton ad configuration.
func (api *MonetizationAPI) GetAdConfig(c *gin.Context) {
	config, err := api.db.GetAdConfig()
	if err != nil {
		api.log.Errorw("ad config read failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load ad configuration"})
		return
	}
	c.JSON(http.StatusOK, config)
}

// UpdateAdConfig patches the singleton ad configuration. Only the
// fields present in the request change.
func (api *MonetizationAPI) UpdateAdConfig(c *gin.Context) {
	var req UpdateAdConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	config, err := api.db.GetAdConfig()
	if err != nil {
		api.log.Errorw("ad config read failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load ad configuration"})
		return
	}

	if req.Enabled != nil {
		config.Enabled = *req.Enabled
	}
	if req.AppID != nil {
		config.AppID = *req.AppID
	}
	if req.BannerUnitID != nil {
		config.BannerUnitID = *req.BannerUnitID
	}
	if req.InterstitialUnitID != nil {
		config.InterstitialUnitID = *req.InterstitialUnitID
	}
	if req.RewardedUnitID != nil {
		config.RewardedUnitID = *req.RewardedUnitID
	}
	if req.InterstitialInterval != nil {
		config.InterstitialInterval = *req.InterstitialInterval
	}

	if err := api.db.SaveAdConfig(config); err != nil {
		api.log.Errorw("ad config save failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save ad configuration"})
		return
	}

	c.JSON(http.StatusOK, config)
}

// GetPlans returns the subscription catalogue. The offers are fixed;
// pricing changes ship with the panel.
func (api *MonetizationAPI) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, GetPlansResponse{Plans: []PlanOffer{
		{
			Name:     "Premium Monthly",
			Price:    "$9.99",
			Interval: "month",
			Features: []string{"No ads", "Unlimited bandwidth", "3 devices"},
		},
		{
			Name:     "Premium Yearly",
			Price:    "$89.99",
			Interval: "year",
			Features: []string{"No ads", "Unlimited bandwidth", "3 devices", "2 months free"},
		},
		{
			Name:     "VIP Access",
			Price:    "$19.99",
			Interval: "month",
			Features: []string{"No ads", "Unlimited bandwidth", "10 devices", "Priority servers"},
		},
	}})
}

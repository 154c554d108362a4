package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexus-panel/internal/database"
	"nexus-panel/internal/share"
	"nexus-panel/internal/state"
)

// ServerAPI provides the server fleet endpoints: listing with a live
// filter, adding nodes with defaulting, the delete confirmation flow,
// status toggling and client share links.
type ServerAPI struct {
	servers *state.ServerController // Fleet controller
	db      *database.Database      // Store, for direct node reads
	qr      *share.QRGenerator      // QR rendering for share links
	log     *zap.SugaredLogger
}

type CreateServerRequest struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	Port            int    `json:"port"`
	Protocol        string `json:"protocol"`
	Country         string `json:"country"`
	Transport       string `json:"transport"`
	TLS             bool   `json:"tls"`
	SNI             string `json:"sni"`
	Path            string `json:"path"`
	UDPPort         int    `json:"udp_port"`
	CustomPayload   string `json:"custom_payload"`
	EnablePayload   bool   `json:"enable_payload"`
	PayloadInterval int    `json:"payload_interval"`
}

type DeleteServerRequest struct {
	Confirmed bool `json:"confirmed"`
}

type GetServersResponse struct {
	Servers []database.ServerNode `json:"servers"`
	Total   int                   `json:"total"`
}

type ShareResponse struct {
	Link   string `json:"link"`
	QRCode string `json:"qr_code"`
}

// NewServerAPI creates a new server API instance.
func NewServerAPI(servers *state.ServerController, db *database.Database, log *zap.SugaredLogger) *ServerAPI {
	return &ServerAPI{
		servers: servers,
		db:      db,
		qr:      share.NewQRGenerator(),
		log:     log,
	}
}

// RegisterRoutes registers the server fleet routes.
func (api *ServerAPI) RegisterRoutes(group *gin.RouterGroup) {
	servers := group.Group("/servers")
	{
		servers.GET("", api.GetServers)
		servers.POST("", api.CreateServer)
		servers.DELETE("/:id", api.DeleteServer)
		servers.POST("/:id/toggle", api.ToggleServer)
		servers.GET("/:id/share", api.ShareServer)
	}
}

// GetServers returns the fleet filtered by the optional q parameter,
// matched case-insensitively against name and country.
func (api *ServerAPI) GetServers(c *gin.Context) {
	nodes, err := api.servers.Filter(c.Query("q"))
	if err != nil {
		api.log.Errorw("server listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list servers"})
		return
	}

	c.JSON(http.StatusOK, GetServersResponse{Servers: nodes, Total: len(nodes)})
}

// CreateServer adds a node. Missing fields fall back to the form's
// defaults; the node always starts offline with zero load.
func (api *ServerAPI) CreateServer(c *gin.Context) {
	var req CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	node, err := api.servers.Add(database.ServerNode{
		Name:            req.Name,
		Address:         req.Address,
		Port:            req.Port,
		Protocol:        database.Protocol(req.Protocol),
		Country:         req.Country,
		Transport:       database.Transport(req.Transport),
		TLS:             req.TLS,
		SNI:             req.SNI,
		Path:            req.Path,
		UDPPort:         req.UDPPort,
		CustomPayload:   req.CustomPayload,
		EnablePayload:   req.EnablePayload,
		PayloadInterval: req.PayloadInterval,
	})
	if err != nil {
		api.log.Errorw("server creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create server"})
		return
	}

	c.JSON(http.StatusCreated, node)
}

// DeleteServer removes a node behind the confirmation flow. Without
// confirmed:true the request is answered 409 with the prompt to show;
// an unknown ID is a no-op either way.
func (api *ServerAPI) DeleteServer(c *gin.Context) {
	var req DeleteServerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}

	err := api.servers.Remove(c.Param("id"), state.Answers{Confirmed: req.Confirmed})
	if errors.Is(err, state.ErrDeclined) {
		respondConfirmRequired(c, state.ServerDeletePrompt)
		return
	}
	if err != nil {
		api.log.Errorw("server deletion failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete server"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleServer flips a node between online and offline. A node under
// maintenance is returned unchanged.
func (api *ServerAPI) ToggleServer(c *gin.Context) {
	node, err := api.servers.ToggleStatus(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Server not found"})
		return
	}
	if err != nil {
		api.log.Errorw("server toggle failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to toggle server"})
		return
	}

	c.JSON(http.StatusOK, node)
}

// ShareServer returns the client share link of a node, with a QR
// rendering. format=png serves the image directly; the default is a
// JSON response with a base64 data URI.
func (api *ServerAPI) ShareServer(c *gin.Context) {
	node, err := api.db.GetServerNode(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Server not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get server"})
		return
	}

	link, err := share.Link(node)
	if err != nil {
		api.log.Errorw("share link failed", "id", node.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build share link"})
		return
	}

	if c.DefaultQuery("format", "base64") == "png" {
		data, err := api.qr.PNG(link)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate QR code"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s.png", node.ID))
		c.Data(http.StatusOK, "image/png", data)
		return
	}

	qr, err := api.qr.Base64(link)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate QR code"})
		return
	}
	c.JSON(http.StatusOK, ShareResponse{Link: link, QRCode: qr})
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nexus-panel/internal/auth"
	"nexus-panel/internal/session"
)

// SessionAPI provides the login, logout and navigation endpoints backed
// by the session gate.
type SessionAPI struct {
	gate   *session.Gate // Single-admin session gate
	tokens *auth.Manager // JWT issuing and validation
	log    *zap.SugaredLogger
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Page          string `json:"page"`
}

type NavigateRequest struct {
	Page string `json:"page" binding:"required"`
}

// NewSessionAPI creates a new session API instance.
func NewSessionAPI(gate *session.Gate, tokens *auth.Manager, log *zap.SugaredLogger) *SessionAPI {
	return &SessionAPI{
		gate:   gate,
		tokens: tokens,
		log:    log,
	}
}

// RegisterPublicRoutes registers the routes reachable without a token.
func (api *SessionAPI) RegisterPublicRoutes(group *gin.RouterGroup) {
	group.POST("/auth/login", api.Login)
}

// RegisterRoutes registers the token-guarded session routes.
func (api *SessionAPI) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/auth/logout", api.Logout)
	group.GET("/auth/session", api.Session)
	group.POST("/auth/navigate", api.Navigate)
}

// Login checks the credentials against the gate and issues a token.
// The failure message is identical for a wrong email and a wrong
// password.
func (api *SessionAPI) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := api.gate.Login(req.Email, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	token, expiresAt, err := api.tokens.GenerateToken(req.Email)
	if err != nil {
		api.log.Errorw("token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Logout closes the session and clears the persisted flag.
func (api *SessionAPI) Logout(c *gin.Context) {
	api.gate.Logout()
	c.Status(http.StatusNoContent)
}

// Session reports the gate's current state.
func (api *SessionAPI) Session(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{
		Authenticated: api.gate.Authenticated(),
		Page:          string(api.gate.CurrentPage()),
	})
}

// Navigate records the active page.
func (api *SessionAPI) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	api.gate.Navigate(session.Page(req.Page))
	c.JSON(http.StatusOK, SessionResponse{
		Authenticated: api.gate.Authenticated(),
		Page:          string(api.gate.CurrentPage()),
	})
}

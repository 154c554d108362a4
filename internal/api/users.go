package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nexus-panel/internal/database"
	"nexus-panel/internal/state"
)

// UserAPI provides the user management endpoints: the filtered list
// with its selection state, selection manipulation, bulk and individual
// actions behind the confirmation flow, and a CSV export.
type UserAPI struct {
	users *state.UserController // User screen controller
	log   *zap.SugaredLogger
}

// UserView is one row of the user list, a user record plus its
// selection state.
type UserView struct {
	database.User
	Selected    bool `json:"selected"`     // Membership in the selection set
	DeviceLimit int  `json:"device_limit"` // Per-plan device allowance
}

type GetUsersResponse struct {
	Users    []UserView `json:"users"`
	Total    int        `json:"total"`
	Selected int        `json:"selected"` // Size of the selection set, filtered or not
}

type SelectionRequest struct {
	Action string `json:"action" binding:"required"` // all, clear or toggle
	ID     string `json:"id"`                        // Target of toggle
}

type BulkActionRequest struct {
	Action    string `json:"action" binding:"required"` // activate, ban, delete or subscription
	Confirmed bool   `json:"confirmed"`
	Plan      string `json:"plan"` // Answer to the subscription prompt
}

type UserActionRequest struct {
	Action    string `json:"action" binding:"required"`
	Confirmed bool   `json:"confirmed"`
	Plan      string `json:"plan"`
}

type BulkActionResponse struct {
	Affected int64 `json:"affected"`
}

// NewUserAPI creates a new user API instance.
func NewUserAPI(users *state.UserController, log *zap.SugaredLogger) *UserAPI {
	return &UserAPI{
		users: users,
		log:   log,
	}
}

// RegisterRoutes registers the user management routes.
func (api *UserAPI) RegisterRoutes(group *gin.RouterGroup) {
	users := group.Group("/users")
	{
		users.GET("", api.GetUsers)
		users.GET("/export", api.ExportUsers)
		users.POST("/selection", api.UpdateSelection)
		users.POST("/bulk", api.BulkAction)
		users.POST("/:id/action", api.UserAction)
	}
}

// GetUsers returns the filtered user list with selection state. The q
// parameter replaces the live filter term; omitting it leaves the term
// untouched so the view survives refreshes.
func (api *UserAPI) GetUsers(c *gin.Context) {
	if term, ok := c.GetQuery("q"); ok {
		api.users.SetFilter(term)
	}

	users, err := api.users.Filtered()
	if err != nil {
		api.log.Errorw("user listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users"})
		return
	}

	response := GetUsersResponse{
		Users:    make([]UserView, len(users)),
		Total:    len(users),
		Selected: api.users.SelectionSize(),
	}
	for i, user := range users {
		response.Users[i] = UserView{
			User:        user,
			Selected:    api.users.IsSelected(user.ID),
			DeviceLimit: user.DeviceLimit(),
		}
	}

	c.JSON(http.StatusOK, response)
}

// UpdateSelection manipulates the selection set: all selects the
// current filtered view, clear empties it, toggle flips one ID.
func (api *UserAPI) UpdateSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	switch req.Action {
	case "all":
		if err := api.users.SelectAll(); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to select users"})
			return
		}
	case "clear":
		api.users.ClearSelection()
	case "toggle":
		if req.ID == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "toggle requires an id"})
			return
		}
		api.users.ToggleOne(req.ID)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unknown selection action %q", req.Action)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"selected": api.users.SelectionSize()})
}

// BulkAction applies an action to the selection behind the confirmation
// flow. Delete and ban answer 409 with a count-bearing prompt until
// confirmed; subscription answers 409 asking for a plan until one is
// supplied, and rejects anything outside free/premium/vip.
func (api *UserAPI) BulkAction(c *gin.Context) {
	var req BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answers := state.Answers{
		Confirmed: req.Confirmed,
		Value:     req.Plan,
		HasValue:  req.Plan != "",
	}

	affected, err := api.users.ApplyBulk(req.Action, answers)
	switch {
	case errors.Is(err, state.ErrDeclined):
		api.respondBulkPrompt(c, req.Action)
	case errors.Is(err, state.ErrInvalidPlan):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, state.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case err != nil:
		api.log.Errorw("bulk action failed", "action", req.Action, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply bulk action"})
	default:
		c.JSON(http.StatusOK, BulkActionResponse{Affected: affected})
	}
}

// respondBulkPrompt replays the prompt the declined bulk action would
// have shown.
func (api *UserAPI) respondBulkPrompt(c *gin.Context, action string) {
	size := api.users.SelectionSize()
	switch action {
	case state.ActionBan:
		respondConfirmRequired(c, state.BulkBanPrompt(size))
	case state.ActionDelete:
		respondConfirmRequired(c, state.BulkDeletePrompt(size))
	case state.ActionSubscription:
		respondPromptRequired(c, state.PlanPromptMessage)
	default:
		respondConfirmRequired(c, "Are you sure?")
	}
}

// UserAction applies an action to a single user behind the confirmation
// flow. An unknown ID is a no-op.
func (api *UserAPI) UserAction(c *gin.Context) {
	var req UserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answers := state.Answers{
		Confirmed: req.Confirmed,
		Value:     req.Plan,
		HasValue:  req.Plan != "",
	}

	err := api.users.ApplyOne(req.Action, c.Param("id"), answers)
	switch {
	case errors.Is(err, state.ErrDeclined):
		api.respondUserPrompt(c, req.Action)
	case errors.Is(err, state.ErrInvalidPlan):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, state.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case err != nil:
		api.log.Errorw("user action failed", "action", req.Action, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply action"})
	default:
		c.Status(http.StatusNoContent)
	}
}

// respondUserPrompt replays the prompt the declined individual action
// would have shown.
func (api *UserAPI) respondUserPrompt(c *gin.Context, action string) {
	switch action {
	case state.ActionBan:
		respondConfirmRequired(c, state.UserBanPrompt)
	case state.ActionDelete:
		respondConfirmRequired(c, state.UserDeletePrompt)
	case state.ActionSubscription:
		respondPromptRequired(c, state.PlanPromptMessage)
	default:
		respondConfirmRequired(c, "Are you sure?")
	}
}

// ExportUsers streams the current filtered view as CSV.
func (api *UserAPI) ExportUsers(c *gin.Context) {
	users, err := api.users.Filtered()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=users.csv")

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write([]string{"id", "email", "status", "subscription", "last_login", "devices", "device_limit"})
	for _, user := range users {
		_ = writer.Write([]string{
			user.ID,
			user.Email,
			string(user.Status),
			string(user.Subscription),
			user.LastLogin,
			strconv.Itoa(user.DeviceCount),
			strconv.Itoa(user.DeviceLimit()),
		})
	}
	writer.Flush()
}

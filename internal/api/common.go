// Package api provides the REST endpoints of the admin panel. It
// implements HTTP handlers for the session gate, server fleet, user
// accounts, monetization settings and AI insights using the Gin web
// framework, delegating all state changes to the controllers.
//
// Destructive operations follow a two-step confirmation flow: a request
// arriving without confirmation is answered 409 together with the exact
// prompt the client should show, and the client repeats the request
// carrying the answer. A client that never resubmits has cancelled, and
// nothing changes.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConfirmRequiredResponse is returned with status 409 when a destructive
// request arrives without confirmation. Prompt carries the question to
// present verbatim; PromptForValue marks prompts expecting a typed
// answer rather than a yes/no.
type ConfirmRequiredResponse struct {
	ConfirmationRequired bool   `json:"confirmation_required"`
	Prompt               string `json:"prompt"`
	PromptForValue       bool   `json:"prompt_for_value,omitempty"`
}

// respondConfirmRequired answers a yes/no confirmation prompt.
func respondConfirmRequired(c *gin.Context, prompt string) {
	c.JSON(http.StatusConflict, ConfirmRequiredResponse{
		ConfirmationRequired: true,
		Prompt:               prompt,
	})
}

// respondPromptRequired answers a free-text prompt.
func respondPromptRequired(c *gin.Context, prompt string) {
	c.JSON(http.StatusConflict, ConfirmRequiredResponse{
		ConfirmationRequired: true,
		Prompt:               prompt,
		PromptForValue:       true,
	})
}

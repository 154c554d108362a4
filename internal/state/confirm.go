// Package state implements the collection controllers behind the panel
// screens. Each controller owns the view-level state of one screen
// (filter term, selection set) and applies user intents — add, delete,
// toggle, bulk actions, the simulated load tick — to the backing store.
// Destructive intents pass through a Confirmer before any record is
// touched; a declined confirmation leaves the store exactly as it was.
package state

import (
	"errors"
	"fmt"
)

// Confirmer answers the confirmation prompts guarding destructive
// operations. In the HTTP layer the answers arrive with the request
// itself; tests inject fixed answers.
type Confirmer interface {
	// Confirm presents a yes/no question and reports the answer.
	Confirm(message string) bool
	// Prompt presents a free-text question with a default value.
	// The second result is false when the prompt was cancelled.
	Prompt(message, defaultValue string) (string, bool)
}

// Answers is a Confirmer whose responses are fixed up front, for callers
// that received the user's decision together with the intent (an HTTP
// request, a test case).
type Answers struct {
	Confirmed bool   // Answer to yes/no confirmations
	Value     string // Answer to free-text prompts
	HasValue  bool   // Whether Value was supplied at all
}

// Confirm reports the pre-recorded yes/no answer.
func (a Answers) Confirm(string) bool { return a.Confirmed }

// Prompt returns the pre-recorded value, or reports cancellation when
// no value was supplied.
func (a Answers) Prompt(_, _ string) (string, bool) {
	if !a.HasValue {
		return "", false
	}
	return a.Value, true
}

// Control-flow sentinels for aborted operations. A declined confirmation
// or cancelled prompt is a normal abort, not a failure; callers use
// ErrDeclined to decide whether a prompt still has to be answered.
var (
	// ErrDeclined marks an operation aborted because its confirmation
	// was declined or its prompt cancelled. No state was changed.
	ErrDeclined = errors.New("confirmation declined")
	// ErrInvalidPlan marks a subscription change aborted because the
	// entered plan is not one of free, premium, vip. No state was changed.
	ErrInvalidPlan = errors.New("invalid subscription plan")
	// ErrUnknownAction marks a request naming an action the controller
	// does not implement.
	ErrUnknownAction = errors.New("unknown action")
)

// Prompt messages shown before destructive operations. The HTTP layer
// replays these to the client when a request arrives unconfirmed.
const (
	ServerDeletePrompt = "Are you sure you want to delete this server? This action cannot be undone."
	UserDeletePrompt   = "Are you sure you want to delete this user? This cannot be undone."
	UserBanPrompt      = "Are you sure you want to BAN this user?"
	PlanPromptMessage  = "Enter new subscription plan (free, premium, vip):"
)

// BulkDeletePrompt returns the confirmation message for deleting n users.
func BulkDeletePrompt(n int) string {
	return fmt.Sprintf("Are you sure you want to delete %d users? This cannot be undone.", n)
}

// BulkBanPrompt returns the confirmation message for banning n users.
func BulkBanPrompt(n int) string {
	return fmt.Sprintf("Are you sure you want to BAN %d users?", n)
}

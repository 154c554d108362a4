package state

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexus-panel/internal/database"
)

// User actions accepted by ApplyBulk and ApplyOne.
const (
	ActionActivate     = "activate"
	ActionBan          = "ban"
	ActionSubscription = "subscription"
	ActionDelete       = "delete"
	ActionEdit         = "edit" // individual only, placeholder
)

// UserController owns the user screen's working state: the live filter
// term and the selection set. Bulk actions apply atomically to the
// selection; a declined confirmation or invalid plan aborts the whole
// action with no partial effect.
//
// The selection deliberately survives filter changes: an ID selected
// before a filter narrowed the view stays selected (and reappears
// checked once the filter widens again). It is only cleared by a
// successful bulk action or by deleting the selected user.
type UserController struct {
	db  *database.Database
	log *zap.SugaredLogger

	mu       sync.Mutex
	term     string
	selected map[string]struct{}
}

// NewUserController creates a user controller with an empty filter and
// selection.
func NewUserController(db *database.Database, log *zap.SugaredLogger) *UserController {
	return &UserController{
		db:       db,
		log:      log,
		selected: make(map[string]struct{}),
	}
}

// SetFilter replaces the live filter term. The term is applied on every
// read of the filtered view; setting it never mutates the collection or
// the selection.
func (c *UserController) SetFilter(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.term = term
}

// Term returns the current filter term.
func (c *UserController) Term() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// Filtered returns the users whose email contains the current filter
// term, case-insensitively. An empty term matches everyone.
func (c *UserController) Filtered() ([]database.User, error) {
	users, err := c.db.ListUsers()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	needle := strings.ToLower(c.term)
	c.mu.Unlock()

	if needle == "" {
		return users, nil
	}

	filtered := make([]database.User, 0, len(users))
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.Email), needle) {
			filtered = append(filtered, user)
		}
	}
	return filtered, nil
}

// SelectAll replaces the selection with exactly the IDs of the current
// filtered view — not the full collection. A filter matching nothing
// therefore empties the selection.
func (c *UserController) SelectAll() error {
	users, err := c.Filtered()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[string]struct{}, len(users))
	for _, user := range users {
		c.selected[user.ID] = struct{}{}
	}
	return nil
}

// ToggleOne flips the selection membership of a single ID.
func (c *UserController) ToggleOne(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
	} else {
		c.selected[id] = struct{}{}
	}
}

// IsSelected reports whether the ID is currently selected.
func (c *UserController) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// Selection returns the selected IDs in stable order.
func (c *UserController) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SelectionSize returns the number of selected IDs.
func (c *UserController) SelectionSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selected)
}

// ClearSelection empties the selection set.
func (c *UserController) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[string]struct{})
}

// ApplyBulk applies an action to every selected user, all or nothing.
// Delete and ban require confirmation with a count-bearing message;
// activate applies immediately; subscription prompts for a plan and
// validates it case-insensitively against free/premium/vip. A declined
// confirmation returns ErrDeclined and an invalid plan ErrInvalidPlan;
// in both cases no user is touched and the selection is retained.
// On success the selection is cleared. Returns the number of records
// changed; an empty selection is a no-op.
func (c *UserController) ApplyBulk(action string, confirmer Confirmer) (int64, error) {
	ids := c.Selection()
	if len(ids) == 0 {
		return 0, nil
	}

	var (
		affected int64
		err      error
	)

	switch action {
	case ActionActivate:
		affected, err = c.db.SetUsersStatus(ids, database.UserActive)

	case ActionBan:
		if !confirmer.Confirm(BulkBanPrompt(len(ids))) {
			return 0, ErrDeclined
		}
		affected, err = c.db.SetUsersStatus(ids, database.UserBanned)

	case ActionDelete:
		if !confirmer.Confirm(BulkDeletePrompt(len(ids))) {
			return 0, ErrDeclined
		}
		affected, err = c.db.DeleteUsers(ids)

	case ActionSubscription:
		plan, ok := c.promptPlan(confirmer, string(database.PlanPremium))
		if !ok {
			return 0, ErrDeclined
		}
		if !database.ValidPlan(plan) {
			return 0, ErrInvalidPlan
		}
		affected, err = c.db.SetUsersSubscription(ids, database.Plan(plan))

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err != nil {
		return 0, fmt.Errorf("bulk %s failed: %w", action, err)
	}

	c.ClearSelection()
	c.log.Infow("bulk action applied", "action", action, "targets", len(ids), "affected", affected)
	return affected, nil
}

// ApplyOne applies an action to a single user. Confirmation rules match
// the bulk variants; edit is accepted as a no-op placeholder. Deleting a
// user also removes them from the selection set. Acting on an unknown ID
// is a no-op.
func (c *UserController) ApplyOne(action, id string, confirmer Confirmer) error {
	user, err := c.db.GetUser(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch action {
	case ActionActivate:
		user.Status = database.UserActive
		err = c.db.UpdateUser(user)

	case ActionBan:
		if !confirmer.Confirm(UserBanPrompt) {
			return ErrDeclined
		}
		user.Status = database.UserBanned
		err = c.db.UpdateUser(user)

	case ActionDelete:
		if !confirmer.Confirm(UserDeletePrompt) {
			return ErrDeclined
		}
		if err = c.db.DeleteUser(id); err == nil {
			c.mu.Lock()
			delete(c.selected, id)
			c.mu.Unlock()
		}

	case ActionSubscription:
		plan, ok := c.promptPlan(confirmer, string(user.Subscription))
		if !ok {
			return ErrDeclined
		}
		if !database.ValidPlan(plan) {
			return ErrInvalidPlan
		}
		user.Subscription = database.Plan(plan)
		err = c.db.UpdateUser(user)

	case ActionEdit:
		// Placeholder: the edit dialog is not part of this panel yet.
		c.log.Debugw("edit requested", "id", id)
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err != nil {
		return fmt.Errorf("%s failed for user %s: %w", action, id, err)
	}

	c.log.Infow("user action applied", "action", action, "id", id)
	return nil
}

// promptPlan asks the confirmer for a subscription plan and lowercases
// the answer. The second result is false when the prompt was cancelled.
func (c *UserController) promptPlan(confirmer Confirmer, defaultPlan string) (string, bool) {
	plan, ok := confirmer.Prompt(PlanPromptMessage, defaultPlan)
	if !ok {
		return "", false
	}
	return strings.ToLower(plan), true
}

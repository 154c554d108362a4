// Package session implements the panel's session gate: a two-state
// machine (unauthenticated -> authenticated) guarded by one fixed
// credential pair, plus the persisted flag that restores the session
// across process restarts. This is a placeholder gate, not a security
// boundary; deployments that face a network must put real
// authentication in front of it.
package session

import (
	"crypto/subtle"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Page identifies one screen of the panel.
type Page string

// Panel pages. Logout always resets navigation to the dashboard.
const (
	PageDashboard    Page = "dashboard"
	PageServers      Page = "servers"
	PageUsers        Page = "users"
	PageMonetization Page = "monetization"
	PageAIInsights   Page = "ai_insights"
	PageSettings     Page = "settings"
)

// ErrInvalidCredentials is returned verbatim to the login form.
var ErrInvalidCredentials = errors.New("Invalid email or password")

// Gate holds the authentication state of the panel. Login succeeds only
// on an exact match against the configured credential pair; the password
// is held as a bcrypt hash and compared in constant time.
type Gate struct {
	email        string
	passwordHash []byte
	flag         *FlagStore
	log          *zap.SugaredLogger

	mu            sync.Mutex
	authenticated bool
	page          Page
}

// NewGate creates a gate for the given credential pair. The plaintext
// password is hashed immediately and never retained. An existing
// persisted flag restores the authenticated state, mirroring a session
// surviving a restart. Returns an error if hashing fails.
func NewGate(email, password string, flag *FlagStore, log *zap.SugaredLogger) (*Gate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Gate{
		email:         email,
		passwordHash:  hash,
		flag:          flag,
		log:           log,
		authenticated: flag.IsSet(),
		page:          PageDashboard,
	}, nil
}

// Login attempts the unauthenticated -> authenticated transition.
// On success the persisted flag is written; on failure
// ErrInvalidCredentials is returned and nothing changes. Which of the
// two fields was wrong is deliberately not disclosed.
func (g *Gate) Login(email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(g.email)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) == nil
	if !emailOK || !passwordOK {
		g.log.Warnw("login rejected", "email", email)
		return ErrInvalidCredentials
	}

	g.mu.Lock()
	g.authenticated = true
	g.mu.Unlock()

	if err := g.flag.Set(); err != nil {
		g.log.Warnw("failed to persist session flag", "error", err)
	}

	g.log.Infow("admin logged in", "email", email)
	return nil
}

// Logout always succeeds: it clears the authenticated state and the
// persisted flag, and resets navigation to the dashboard.
func (g *Gate) Logout() {
	g.mu.Lock()
	g.authenticated = false
	g.page = PageDashboard
	g.mu.Unlock()

	if err := g.flag.Clear(); err != nil {
		g.log.Warnw("failed to clear session flag", "error", err)
	}

	g.log.Infow("admin logged out")
}

// Authenticated reports whether the gate is in the authenticated state.
func (g *Gate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}

// CurrentPage returns the page the panel is showing.
func (g *Gate) CurrentPage() Page {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.page
}

// Navigate records the page the panel is showing.
func (g *Gate) Navigate(page Page) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.page = page
}

package state

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexus-panel/internal/database"
)

// Default field values applied when a node draft omits them. Out-of-range
// numeric input is coerced to the same values.
const (
	defaultNodeName        = "New Server"
	defaultNodeAddress     = "0.0.0.0"
	defaultNodePort        = 443
	defaultNodeCountry     = "United States"
	defaultNodePath        = "/"
	defaultNodeBandwidth   = "0 GB"
	defaultPayloadInterval = 60
	minPayloadInterval     = 10

	// DefaultTickPeriod is the interval of the simulated load tick while
	// the fleet is being watched.
	DefaultTickPeriod = 2 * time.Second
)

// ServerController owns the server screen's working state. It applies
// node lifecycle intents to the store and drives the simulated load
// jitter. The jitter's randomness source is injectable so tests run
// deterministically.
type ServerController struct {
	db  *database.Database
	log *zap.SugaredLogger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewServerController creates a server controller with a time-seeded
// randomness source for the load tick.
func NewServerController(db *database.Database, log *zap.SugaredLogger) *ServerController {
	return NewServerControllerWithRand(db, log, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewServerControllerWithRand creates a server controller with the given
// randomness source. Tests pass a seeded source to make the tick
// reproducible.
func NewServerControllerWithRand(db *database.Database, log *zap.SugaredLogger, rng *rand.Rand) *ServerController {
	return &ServerController{
		db:  db,
		log: log,
		rng: rng,
	}
}

// List returns the full fleet.
func (c *ServerController) List() ([]database.ServerNode, error) {
	return c.db.ListServerNodes()
}

// Filter returns the nodes whose name or country contains term,
// case-insensitively. An empty term matches the full fleet. The filter
// only shapes the returned view; the underlying collection is untouched.
func (c *ServerController) Filter(term string) ([]database.ServerNode, error) {
	nodes, err := c.db.ListServerNodes()
	if err != nil {
		return nil, err
	}
	if term == "" {
		return nodes, nil
	}

	needle := strings.ToLower(term)
	filtered := make([]database.ServerNode, 0, len(nodes))
	for _, node := range nodes {
		if strings.Contains(strings.ToLower(node.Name), needle) ||
			strings.Contains(strings.ToLower(node.Country), needle) {
			filtered = append(filtered, node)
		}
	}
	return filtered, nil
}

// Add creates a node from a partial draft, filling omitted fields with
// the documented defaults, and appends it to the fleet. A fresh unique
// ID is always assigned; new nodes start offline with zero load.
// Returns the stored node.
func (c *ServerController) Add(draft database.ServerNode) (*database.ServerNode, error) {
	node := draft
	node.ID = uuid.NewString()
	node.Status = database.NodeOffline
	node.Load = 0
	node.Bandwidth = defaultNodeBandwidth

	if node.Name == "" {
		node.Name = defaultNodeName
	}
	if node.Address == "" {
		node.Address = defaultNodeAddress
	}
	if node.Port < 1 || node.Port > 65535 {
		node.Port = defaultNodePort
	}
	if node.Protocol == "" {
		node.Protocol = database.ProtocolVMess
	}
	if node.Country == "" {
		node.Country = defaultNodeCountry
	}
	if node.Transport == "" {
		node.Transport = database.TransportWS
	}
	if node.Path == "" {
		node.Path = defaultNodePath
	}
	if node.UDPPort < 1 || node.UDPPort > 65535 {
		node.UDPPort = defaultNodePort
	}
	if node.PayloadInterval < minPayloadInterval {
		node.PayloadInterval = defaultPayloadInterval
	}

	if err := c.db.CreateServerNode(&node); err != nil {
		return nil, fmt.Errorf("failed to add server node: %w", err)
	}

	c.log.Infow("server node added", "id", node.ID, "name", node.Name, "protocol", node.Protocol)
	return &node, nil
}

// Remove deletes the node with the given ID after confirmation.
// A declined confirmation returns ErrDeclined and changes nothing;
// removing an unknown ID is a no-op.
func (c *ServerController) Remove(id string, confirmer Confirmer) error {
	if !confirmer.Confirm(ServerDeletePrompt) {
		return ErrDeclined
	}

	if err := c.db.DeleteServerNode(id); err != nil {
		return fmt.Errorf("failed to delete server node: %w", err)
	}

	c.log.Infow("server node removed", "id", id)
	return nil
}

// ToggleStatus flips a node strictly between online and offline.
// A node in maintenance is returned unchanged; maintenance can only be
// left through the node editor. Toggling an unknown ID returns the
// store's not-found error.
func (c *ServerController) ToggleStatus(id string) (*database.ServerNode, error) {
	node, err := c.db.GetServerNode(id)
	if err != nil {
		return nil, err
	}

	switch node.Status {
	case database.NodeOnline:
		node.Status = database.NodeOffline
	case database.NodeOffline:
		node.Status = database.NodeOnline
	default:
		return node, nil
	}

	if err := c.db.UpdateServerNode(node); err != nil {
		return nil, fmt.Errorf("failed to toggle server node: %w", err)
	}
	return node, nil
}

// Tick advances the simulated load of every node by +2 or -2, chosen
// independently per node with equal probability, clamped to [0,100].
// This is cosmetic fleet animation, not a health probe.
func (c *ServerController) Tick() error {
	nodes, err := c.db.ListServerNodes()
	if err != nil {
		return err
	}

	for i := range nodes {
		node := &nodes[i]

		c.mu.Lock()
		up := c.rng.Intn(2) == 0
		c.mu.Unlock()

		delta := -2
		if up {
			delta = 2
		}
		node.Load = clampLoad(node.Load + delta)

		if err := c.db.UpdateServerNode(node); err != nil {
			return fmt.Errorf("failed to update load for node %s: %w", node.ID, err)
		}
	}
	return nil
}

// RunTicker invokes Tick on the given period until ctx is cancelled.
// It blocks; callers run it in a goroutine scoped to the lifetime of
// whatever is watching the fleet. A non-positive period is rejected.
func (c *ServerController) RunTicker(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("tick period must be positive, got %v", period)
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.Tick(); err != nil {
				c.log.Warnw("load tick failed", "error", err)
			}
		}
	}
}

// clampLoad bounds a load percentage to [0,100].
func clampLoad(load int) int {
	if load < 0 {
		return 0
	}
	if load > 100 {
		return 100
	}
	return load
}

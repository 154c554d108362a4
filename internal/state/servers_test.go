package state

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexus-panel/internal/database"
)

func setupServerController(t *testing.T) (*ServerController, *database.Database) {
	db, err := database.New(":memory:")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	ctrl := NewServerControllerWithRand(db, zap.NewNop().Sugar(), rng)
	return ctrl, db
}

func TestServerControllerAdd(t *testing.T) {
	ctrl, _ := setupServerController(t)

	t.Run("should fill omitted fields with documented defaults", func(t *testing.T) {
		node, err := ctrl.Add(database.ServerNode{Name: "EU-1"})
		require.NoError(t, err)

		assert.NotEmpty(t, node.ID)
		assert.Equal(t, "EU-1", node.Name)
		assert.Equal(t, 443, node.Port)
		assert.Equal(t, database.ProtocolVMess, node.Protocol)
		assert.Equal(t, "United States", node.Country)
		assert.Equal(t, database.TransportWS, node.Transport)
		assert.False(t, node.TLS)
		assert.Equal(t, "/", node.Path)
		assert.Equal(t, 443, node.UDPPort)
		assert.Equal(t, 60, node.PayloadInterval)
		assert.Equal(t, database.NodeOffline, node.Status)
		assert.Zero(t, node.Load)
		assert.Equal(t, "0 GB", node.Bandwidth)
	})

	t.Run("should keep supplied fields", func(t *testing.T) {
		node, err := ctrl.Add(database.ServerNode{
			Name:     "NL-1",
			Address:  "10.1.2.3",
			Port:     8443,
			Protocol: database.ProtocolTrojan,
			Country:  "Netherlands",
			TLS:      true,
			SNI:      "nl.nexusvpn.com",
		})
		require.NoError(t, err)

		assert.Equal(t, 8443, node.Port)
		assert.Equal(t, database.ProtocolTrojan, node.Protocol)
		assert.Equal(t, "Netherlands", node.Country)
		assert.True(t, node.TLS)
		assert.Equal(t, "nl.nexusvpn.com", node.SNI)
	})

	t.Run("should coerce out-of-range numerics to defaults", func(t *testing.T) {
		node, err := ctrl.Add(database.ServerNode{
			Name:            "Bad-Numbers",
			Port:            -1,
			UDPPort:         70000,
			PayloadInterval: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, 443, node.Port)
		assert.Equal(t, 443, node.UDPPort)
		assert.Equal(t, 60, node.PayloadInterval)
	})

	t.Run("should assign a fresh id per node", func(t *testing.T) {
		a, err := ctrl.Add(database.ServerNode{Name: "A"})
		require.NoError(t, err)
		b, err := ctrl.Add(database.ServerNode{Name: "B"})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestServerControllerRemove(t *testing.T) {
	ctrl, db := setupServerController(t)

	node, err := ctrl.Add(database.ServerNode{Name: "doomed"})
	require.NoError(t, err)

	t.Run("should leave the fleet unchanged when confirmation is declined", func(t *testing.T) {
		err := ctrl.Remove(node.ID, Answers{Confirmed: false})
		assert.ErrorIs(t, err, ErrDeclined)

		_, err = db.GetServerNode(node.ID)
		assert.NoError(t, err)
	})

	t.Run("should remove exactly the given node when confirmed", func(t *testing.T) {
		other, err := ctrl.Add(database.ServerNode{Name: "survivor"})
		require.NoError(t, err)

		require.NoError(t, ctrl.Remove(node.ID, Answers{Confirmed: true}))

		_, err = db.GetServerNode(node.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		_, err = db.GetServerNode(other.ID)
		assert.NoError(t, err)
	})

	t.Run("should treat a nonexistent id as a no-op", func(t *testing.T) {
		before, err := ctrl.List()
		require.NoError(t, err)

		require.NoError(t, ctrl.Remove("no-such-id", Answers{Confirmed: true}))

		after, err := ctrl.List()
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestServerControllerToggleStatus(t *testing.T) {
	ctrl, db := setupServerController(t)

	online := &database.ServerNode{ID: "on", Name: "on", Status: database.NodeOnline}
	maint := &database.ServerNode{ID: "mt", Name: "mt", Status: database.NodeMaintenance}
	require.NoError(t, db.CreateServerNode(online))
	require.NoError(t, db.CreateServerNode(maint))

	t.Run("should be its own inverse for online and offline", func(t *testing.T) {
		node, err := ctrl.ToggleStatus("on")
		require.NoError(t, err)
		assert.Equal(t, database.NodeOffline, node.Status)

		node, err = ctrl.ToggleStatus("on")
		require.NoError(t, err)
		assert.Equal(t, database.NodeOnline, node.Status)
	})

	t.Run("should never touch a node in maintenance", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			node, err := ctrl.ToggleStatus("mt")
			require.NoError(t, err)
			assert.Equal(t, database.NodeMaintenance, node.Status)
		}
	})

	t.Run("should report unknown ids", func(t *testing.T) {
		_, err := ctrl.ToggleStatus("ghost")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestServerControllerTick(t *testing.T) {
	ctrl, db := setupServerController(t)

	require.NoError(t, db.CreateServerNode(&database.ServerNode{ID: "low", Name: "low", Load: 0}))
	require.NoError(t, db.CreateServerNode(&database.ServerNode{ID: "mid", Name: "mid", Load: 50}))
	require.NoError(t, db.CreateServerNode(&database.ServerNode{ID: "high", Name: "high", Load: 100}))

	t.Run("should keep load within bounds after many ticks", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			require.NoError(t, ctrl.Tick())
		}

		nodes, err := ctrl.List()
		require.NoError(t, err)
		for _, node := range nodes {
			assert.GreaterOrEqual(t, node.Load, 0, "node %s", node.ID)
			assert.LessOrEqual(t, node.Load, 100, "node %s", node.ID)
		}
	})

	t.Run("should move load by exactly two per tick when unclamped", func(t *testing.T) {
		node, err := db.GetServerNode("mid")
		require.NoError(t, err)
		before := node.Load
		require.True(t, before > 0 && before < 100)

		require.NoError(t, ctrl.Tick())

		node, err = db.GetServerNode("mid")
		require.NoError(t, err)
		diff := node.Load - before
		assert.Contains(t, []int{-2, 2}, diff)
	})
}

func TestServerControllerRunTicker(t *testing.T) {
	ctrl, _ := setupServerController(t)

	t.Run("should reject a non-positive period", func(t *testing.T) {
		err := ctrl.RunTicker(context.Background(), 0)
		assert.Error(t, err)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- ctrl.RunTicker(ctx, time.Millisecond)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("ticker did not stop after cancellation")
		}
	})
}

func TestServerControllerFilter(t *testing.T) {
	ctrl, db := setupServerController(t)

	require.NoError(t, db.CreateServerNode(&database.ServerNode{ID: "1", Name: "US-East-1", Country: "United States"}))
	require.NoError(t, db.CreateServerNode(&database.ServerNode{ID: "2", Name: "SG-Asia-1", Country: "Singapore"}))

	t.Run("should match name and country case-insensitively", func(t *testing.T) {
		nodes, err := ctrl.Filter("us-east")
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "1", nodes[0].ID)

		nodes, err = ctrl.Filter("singapore")
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "2", nodes[0].ID)
	})

	t.Run("should match everything on an empty term", func(t *testing.T) {
		nodes, err := ctrl.Filter("")
		require.NoError(t, err)
		assert.Len(t, nodes, 2)
	})

	t.Run("should yield an empty view when nothing matches", func(t *testing.T) {
		nodes, err := ctrl.Filter("antarctica")
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})
}

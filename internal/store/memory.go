// internal/store/memory.go
//
// In-memory session store for Bergle games.
//
// Characteristics:
//   - Stores *game.Game values keyed by ID.
//   - Concurrency-safe via RWMutex; Update runs mutations under the write lock
//     so a guess never races with a reader snapshotting the history.
//   - Games idle for longer than the retention window are dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/maxbax0808/Bergle/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("game not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Get returns a snapshot copy of a game.
	Get(ctx context.Context, id string) (game.Game, error)

	// Update applies fn to the stored game while holding exclusive access.
	Update(ctx context.Context, id string, fn func(g *game.Game) error) error
}

// Memory is the map-backed Store implementation.
type Memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{games: make(map[string]*game.Game)}
}

func (m *Memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return game.Game{}, ErrNotFound
	}
	snap := *g
	snap.Guesses = g.History()
	return snap, nil
}

func (m *Memory) Update(ctx context.Context, id string, fn func(g *game.Game) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	return fn(g)
}

// Sweep removes games with no activity (start or guess) since cutoff,
// finished or not, and reports how many went.
func (m *Memory) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.LastActive().Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n
}

// Len reports the number of stored games.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

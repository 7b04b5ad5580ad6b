package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/game"
)

func TestMemoryStore_SaveGetUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := game.New(catalog.Entity{Code: "a", Name: "A"})
	require.NoError(t, s.Save(ctx, g))

	err := s.Update(ctx, g.ID, func(g *game.Game) error {
		g.Guesses = append(g.Guesses, game.Guess{Name: "B", Order: 1})
		return nil
	})
	require.NoError(t, err)

	snap, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, snap.Guesses, 1)

	// snapshots do not alias the stored history
	snap.Guesses[0].Name = "mutated"
	again, _ := s.Get(ctx, g.ID)
	assert.Equal(t, "B", again.Guesses[0].Name)
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Update(ctx, "nope", func(*game.Game) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := game.New(catalog.Entity{Code: "a", Name: "A"})
	require.NoError(t, s.Save(ctx, g))

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Update(ctx, g.ID, func(*game.Game) error { return boom }), boom)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	cutoff := now.Add(-24 * time.Hour)

	newAt := func(started time.Time, finished bool, guessedAt ...time.Time) *game.Game {
		g := game.New(catalog.Entity{Code: "a", Name: "A"})
		g.StartedAt = started
		g.Finished = finished
		for i, at := range guessedAt {
			g.Guesses = append(g.Guesses, game.Guess{Name: "B", Order: i + 1, CreatedAt: at})
		}
		require.NoError(t, s.Save(ctx, g))
		return g
	}

	finishedOld := newAt(now.Add(-48*time.Hour), true)
	abandoned := newAt(now.Add(-48*time.Hour), false)
	abandonedMidGame := newAt(now.Add(-72*time.Hour), false, now.Add(-50*time.Hour))
	stillPlaying := newAt(now.Add(-48*time.Hour), false, now.Add(-time.Hour))
	fresh := newAt(now, false)

	assert.Equal(t, 3, s.Sweep(cutoff))
	assert.Equal(t, 2, s.Len())

	for _, gone := range []*game.Game{finishedOld, abandoned, abandonedMidGame} {
		_, err := s.Get(ctx, gone.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	for _, kept := range []*game.Game{stillPlaying, fresh} {
		_, err := s.Get(ctx, kept.ID)
		assert.NoError(t, err)
	}

	assert.Equal(t, 0, s.Sweep(cutoff), "second sweep finds nothing")
}

// internal/game/engine.go
//
// Session engine for a single Bergle game.
// Responsibilities:
//   - Create new games against a target place.
//   - Resolve a free-text guess against the catalog (case-insensitive).
//   - Score guesses with geo metrics and append them to the history.
//   - Track state transitions: playing → won/lost.

package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/geo"
)

// DefaultMaxGuesses is the number of attempts per game.
const DefaultMaxGuesses = 6

var (
	ErrFinished       = errors.New("game finished")
	ErrEmptyGuess     = errors.New("empty guess")
	ErrUnknownPlace   = errors.New("unknown place")
	ErrDuplicateGuess = errors.New("already guessed")
)

// New constructs a game against target.
func New(target catalog.Entity) *Game {
	return &Game{
		ID:         uuid.NewString(),
		Target:     target,
		MaxGuesses: DefaultMaxGuesses,
		Guesses:    []Guess{},
		StartedAt:  time.Now().UTC(),
	}
}

// Score builds the Guess record for place against target. It does not touch
// any game state.
func Score(place, target catalog.Entity, order int, at time.Time) Guess {
	dist, dir := geo.DistanceAndDirection(place.Coord(), target.Coord())
	if place.Code == target.Code {
		// same catalog entry even if coordinates are missing
		dist, dir = 0, geo.DirError
	}
	return Guess{
		Name:           place.Name,
		Code:           place.Code,
		Distance:       dist,
		Direction:      dir,
		BydelIsCorrect: place.Bydel != "" && strings.EqualFold(place.Bydel, target.Bydel),
		Order:          order,
		CreatedAt:      at,
	}
}

// ApplyGuess resolves name in cat, scores it, and appends it to the history.
//
// Validation rules:
//   - Game must not be finished.
//   - Name must resolve to a catalog place.
//   - A place can only be guessed once per game.
//
// State transitions:
//   - Exact guess → Finished = true, Won = true.
//   - Else if the number of guesses reaches MaxGuesses → Finished = true (loss).
func (g *Game) ApplyGuess(cat *catalog.Catalog, name string) (Guess, error) {
	if g.Finished {
		return Guess{}, ErrFinished
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Guess{}, ErrEmptyGuess
	}
	place, ok := cat.ByName(name)
	if !ok {
		return Guess{}, fmt.Errorf("%w: %q", ErrUnknownPlace, name)
	}
	for _, prev := range g.Guesses {
		if prev.Code == place.Code {
			return Guess{}, fmt.Errorf("%w: %s", ErrDuplicateGuess, place.Name)
		}
	}

	guess := Score(place, g.Target, len(g.Guesses)+1, time.Now().UTC())
	g.Guesses = append(g.Guesses, guess)

	if guess.Exact() {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.maxGuesses() {
		g.Finished = true
	}
	return guess, nil
}

// LastActive is the time of the latest guess, or StartedAt without guesses.
func (g *Game) LastActive() time.Time {
	if n := len(g.Guesses); n > 0 && g.Guesses[n-1].CreatedAt.After(g.StartedAt) {
		return g.Guesses[n-1].CreatedAt
	}
	return g.StartedAt
}

// Status reports the coarse state of the game.
func (g *Game) Status() Status {
	if g.Finished {
		if g.Won {
			return StatusWon
		}
		return StatusLost
	}
	return StatusPlaying
}

// History returns a copy of the guess history, safe to hand to readers.
func (g *Game) History() []Guess {
	out := make([]Guess, len(g.Guesses))
	copy(out, g.Guesses)
	return out
}

// BestPercent is the highest proximity reached so far.
func (g *Game) BestPercent(p geo.Proximity) int {
	best := 0
	for _, gs := range g.Guesses {
		if pct := p.Percent(gs.Distance); pct > best {
			best = pct
		}
	}
	return best
}

func (g *Game) maxGuesses() int {
	if g.MaxGuesses <= 0 {
		return DefaultMaxGuesses
	}
	return g.MaxGuesses
}

// internal/game/types.go
//
// Core type definitions for the Bergle game engine.
// Defines:
//   - Guess: one scored, immutable player submission.
//   - Game: state for a single in-progress or finished session.

package game

import (
	"time"

	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/geo"
)

// Guess is created once per submission and never mutated afterwards.
type Guess struct {
	Name           string        `json:"name"`           // catalog spelling of the guessed place
	Code           string        `json:"code"`           // catalog code of the guessed place
	Distance       float64       `json:"distance"`       // meters, or geo.Unavailable
	Direction      geo.Direction `json:"direction"`      // compass sector from guess to target
	BydelIsCorrect bool          `json:"bydelIsCorrect"` // guessed place lies in the target's district
	Order          int           `json:"order"`          // 1-based submission order
	CreatedAt      time.Time     `json:"createdAt"`
}

// Exact reports whether the guess landed on the target.
func (g Guess) Exact() bool { return g.Distance == 0 }

// Status is the coarse lifecycle state of a Game.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Mode tells free play from the daily challenge.
type Mode string

const (
	ModeFree  Mode = ""
	ModeDaily Mode = "daily"
)

// Game holds the state of a single session.
type Game struct {
	ID         string         // Unique game identifier (uuid).
	Mode       Mode           // Daily games are only played through the daily routes.
	Target     catalog.Entity // The hidden place.
	MaxGuesses int            // Guesses allowed (typically 6).
	Guesses    []Guess        // Insertion-ordered history.
	Finished   bool           // True once won or out of guesses.
	Won        bool           // True if finished with an exact guess.
	StartedAt  time.Time
}
